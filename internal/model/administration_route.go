package model

import (
	"github.com/google/uuid"
)

// AdministrationRoute is static reference data describing how a
// medication is taken (oral, topical, ...). Read-only to clients.
type AdministrationRoute struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
}
