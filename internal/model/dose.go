package model

import (
	"time"

	"github.com/google/uuid"
)

type DoseStatus string

const (
	DoseStatusPending DoseStatus = "pending"
	DoseStatusTaken   DoseStatus = "taken"
	DoseStatusSkipped DoseStatus = "skipped"
)

// Terminal reports whether the dose can no longer transition.
func (s DoseStatus) Terminal() bool {
	return s == DoseStatusTaken || s == DoseStatusSkipped
}

// Dose is one scheduled intake event, generated in bulk when its parent
// medication is created and independently mutable afterwards.
type Dose struct {
	Base
	MedicationID uuid.UUID  `db:"medication_id" json:"medication_id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	ScheduledAt  time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status       DoseStatus `db:"status" json:"status"`
	TakenAt      *time.Time `db:"taken_at" json:"taken_at,omitempty"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
}

// DoseRow is the list projection with medication details joined in.
type DoseRow struct {
	Dose
	MedicationName string `db:"medication_name" json:"medication_name"`
	DoseText       string `db:"dose_text" json:"dose_text,omitempty"`
}

// DoseTransitionRequest carries the optional notes of a taken/skipped
// transition. Notes replace the stored value only when provided.
type DoseTransitionRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}
