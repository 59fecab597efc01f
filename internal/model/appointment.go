package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status ends the appointment lifecycle.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusRejected
}

type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	LaboratoryID *uuid.UUID        `db:"laboratory_id" json:"laboratory_id,omitempty"`
	ScheduledAt  time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Reason       string            `db:"reason" json:"reason"`
	Status       AppointmentStatus `db:"status" json:"status"`
}

// AppointmentRow is the list projection with display names joined in.
type AppointmentRow struct {
	Appointment
	DoctorName     string  `db:"doctor_name" json:"doctor_name"`
	PatientName    string  `db:"patient_name" json:"patient_name"`
	LaboratoryName *string `db:"laboratory_name" json:"laboratory_name,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID     uuid.UUID  `json:"doctor_id" binding:"required"`
	LaboratoryID *uuid.UUID `json:"laboratory_id"`
	ScheduledAt  time.Time  `json:"scheduled_at" binding:"required"`
	Reason       string     `json:"reason" binding:"required,max=500"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled rejected"`
}

// AppointmentScope widens list filtering from the role default to all
// records linked to the caller on either side.
type AppointmentScope string

const (
	ScopeDefault AppointmentScope = ""
	ScopeAll     AppointmentScope = "all"
)
