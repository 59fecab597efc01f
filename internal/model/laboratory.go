package model

import (
	"github.com/google/uuid"
)

// Laboratory is a physical facility owned by the registering user.
type Laboratory struct {
	Base
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	Address  string    `db:"address" json:"address,omitempty"`
	Phone    string    `db:"phone" json:"phone,omitempty"`
	Location string    `db:"location" json:"location,omitempty"`
}

type CreateLaboratoryRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Address  string `json:"address" binding:"max=300"`
	Phone    string `json:"phone" binding:"max=30"`
	Location string `json:"location" binding:"max=500"`
}
