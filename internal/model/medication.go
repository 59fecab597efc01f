package model

import (
	"time"

	"github.com/google/uuid"
)

type MedicationStatus string

const (
	MedicationStatusActive   MedicationStatus = "active"
	MedicationStatusInactive MedicationStatus = "inactive"
)

// Medication is a prescription-like record. Start/end/interval are
// immutable after dose expansion; intent changes are represented by a
// new medication record.
type Medication struct {
	Base
	UserID        uuid.UUID        `db:"user_id" json:"user_id"`
	Name          string           `db:"name" json:"name"`
	DoseText      string           `db:"dose_text" json:"dose_text,omitempty"`
	RouteID       uuid.UUID        `db:"route_id" json:"route_id"`
	StartDate     time.Time        `db:"start_date" json:"start_date"`
	EndDate       time.Time        `db:"end_date" json:"end_date"`
	IntervalHours int              `db:"interval_hours" json:"interval_hours"`
	PhotoFront    *string          `db:"photo_front" json:"photo_front,omitempty"`
	PhotoBack     *string          `db:"photo_back" json:"photo_back,omitempty"`
	Notes         string           `db:"notes" json:"notes,omitempty"`
	Status        MedicationStatus `db:"status" json:"status"`
}

// MedicationRow is the list projection with the route name joined in.
type MedicationRow struct {
	Medication
	RouteName string `db:"route_name" json:"route_name"`
}

// CreateMedicationRequest carries the text fields of the multipart
// creation form; photos arrive as separate file parts.
type CreateMedicationRequest struct {
	Name          string `form:"name" binding:"required"`
	DoseText      string `form:"dose_text"`
	RouteID       string `form:"route_id" binding:"required,uuid"`
	StartDate     string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate       string `form:"end_date" binding:"required,datetime=2006-01-02"`
	IntervalHours int    `form:"interval_hours" binding:"required,gt=0"`
	Notes         string `form:"notes" binding:"max=1000"`
}

type CreateMedicationResponse struct {
	Medication   *Medication `json:"medication"`
	DosesCreated int         `json:"doses_created"`
}
