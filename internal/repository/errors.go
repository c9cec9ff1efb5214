package repository

import "errors"

var (
	// ErrMissingID is returned by operations that need an already
	// persisted entity (update, delete) when the entity has no id.
	ErrMissingID = errors.New("entity has no id")

	// ErrNotFound is returned when a replace or lookup target does not
	// exist. Drivers treat a replace on a missing id as a silent no-op;
	// here it is surfaced.
	ErrNotFound = errors.New("document not found")

	// ErrSerialize is returned when an entity cannot be represented as
	// a BSON document.
	ErrSerialize = errors.New("cannot serialize entity to document")
)
