package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
)

// EnsureIndexes creates the unique indexes backing the uniqueness
// invariants: tag names and product internal codes. Index creation is
// idempotent; the caller treats a returned error as a non-fatal
// degradation (log and continue), not a startup abort.
func EnsureIndexes(ctx context.Context, store database.Store) error {
	var errs []error

	if _, err := store.Collection(Tag{}.CollectionName()).CreateUniqueIndex(ctx, "name"); err != nil {
		errs = append(errs, fmt.Errorf("tag name index: %w", err))
	}
	if _, err := store.Collection(Product{}.CollectionName()).CreateUniqueIndex(ctx, "internal_code"); err != nil {
		errs = append(errs, fmt.Errorf("product internal_code index: %w", err))
	}

	return errors.Join(errs...)
}
