package postgres

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vitalagenda/vital-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type medicationRepository struct {
	db *sqlx.DB
}

type doseRepository struct {
	db *sqlx.DB
}

type glucoseRepository struct {
	db *sqlx.DB
}

type laboratoryRepository struct {
	db *sqlx.DB
}

type administrationRouteRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func NewDoseRepository(db *sqlx.DB) repository.DoseRepository {
	return &doseRepository{db: db}
}

func NewGlucoseRepository(db *sqlx.DB) repository.GlucoseRepository {
	return &glucoseRepository{db: db}
}

func NewLaboratoryRepository(db *sqlx.DB) repository.LaboratoryRepository {
	return &laboratoryRepository{db: db}
}

func NewAdministrationRouteRepository(db *sqlx.DB) repository.AdministrationRouteRepository {
	return &administrationRouteRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

const uniqueViolation = "23505"

// mapError translates driver errors onto the repository sentinels so
// callers never inspect SQL state.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
