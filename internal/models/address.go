package models

import (
	"fmt"
	"strings"
)

// Address is a value object embedded inside Supplier documents.
type Address struct {
	Street     string `json:"street" bson:"street"`
	Number     int    `json:"number,omitempty" bson:"number,omitempty"`
	Complement string `json:"complement,omitempty" bson:"complement,omitempty"`
	District   string `json:"district" bson:"district"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
}

// FullAddress renders the address as a single display line.
func (a Address) FullAddress() string {
	parts := []string{a.Street}
	if a.Number != 0 {
		parts = append(parts, fmt.Sprintf("%d", a.Number))
	}
	if a.Complement != "" {
		parts = append(parts, a.Complement)
	}
	parts = append(parts, a.District, a.City, a.State, a.PostalCode)
	return strings.Join(parts, ", ")
}
