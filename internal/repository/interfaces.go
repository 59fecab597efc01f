package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
)

// Sentinel errors returned by repositories. The postgres layer maps
// driver-specific failures (missing rows, unique violations) onto these
// so services never see SQL detail.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, role model.Role) ([]*model.UserSummary, error)
}

type AppointmentRepository interface {
	// Create relies on the storage unique index on the doctor/slot pair;
	// a violation surfaces as ErrDuplicate.
	Create(ctx context.Context, appt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role model.Role, scope model.AppointmentScope) ([]*model.AppointmentRow, error)
	// UpdateStatusWithEvent writes the status change and its outbox event
	// in one transaction.
	UpdateStatusWithEvent(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, evt *model.OutboxEvent) error
}

type MedicationRepository interface {
	// CreateWithDoses persists the medication, its full dose schedule and
	// the creation event atomically.
	CreateWithDoses(ctx context.Context, med *model.Medication, doses []*model.Dose, evt *model.OutboxEvent) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.MedicationRow, error)
}

type DoseRepository interface {
	// Get is owner-scoped: a dose belonging to another user is ErrNotFound.
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Dose, error)
	// TransitionWithEvent updates the dose only while it is pending and
	// records the outbox event in the same transaction. Returns false if
	// no pending row matched.
	TransitionWithEvent(ctx context.Context, id, userID uuid.UUID, status model.DoseStatus, takenAt *time.Time, notes *string, evt *model.OutboxEvent) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.DoseRow, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]*model.DoseRow, error)
}

type GlucoseRepository interface {
	// Create surfaces the per-user-per-date unique constraint as ErrDuplicate.
	Create(ctx context.Context, reading *model.GlucoseReading) error
	List(ctx context.Context, userID uuid.UUID, filter *model.GlucoseFilter) ([]*model.GlucoseReading, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.GlucoseReading, error)
	GetLatest(ctx context.Context, userID uuid.UUID) (*model.GlucoseReading, error)
}

type LaboratoryRepository interface {
	Create(ctx context.Context, lab *model.Laboratory) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Laboratory, error)
}

type AdministrationRouteRepository interface {
	List(ctx context.Context) ([]*model.AdministrationRoute, error)
	Get(ctx context.Context, id uuid.UUID) (*model.AdministrationRoute, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, evt *model.OutboxEvent) error
	// GetPending returns the oldest pending events. Polling is
	// best-effort and assumes a single worker; a duplicate publish is
	// tolerable because subscribers treat events as notifications.
	GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}
