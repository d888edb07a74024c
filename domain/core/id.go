// Package core holds identifiers, timestamps and the domain error
// vocabulary shared by the model, trace and adapter packages.
package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier.
type ID string

// NewID creates a time-ordered identifier. UUID v7 keeps IDs sortable
// by creation time; v4 is the fallback when v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id ID) IsEmpty() bool {
	return id == ""
}

// RunID identifies one sampling run.
type RunID ID

// NewRunID creates a new unique run identifier.
func NewRunID() RunID {
	return RunID(NewID())
}

func (id RunID) String() string { return ID(id).String() }
