package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, laboratory_id,
			scheduled_at, reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	appt.ID = uuid.New()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.DoctorID,
		appt.LaboratoryID,
		appt.ScheduledAt,
		appt.Reason,
		appt.Status,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	if err := mapError(err); err != nil {
		if err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, laboratory_id,
			   scheduled_at, reason, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, mapError(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) ListForUser(ctx context.Context, userID uuid.UUID, role model.Role, scope model.AppointmentScope) ([]*model.AppointmentRow, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.laboratory_id,
			   a.scheduled_at, a.reason, a.status, a.created_at, a.updated_at,
			   du.name || ' ' || du.surname AS doctor_name,
			   pu.name || ' ' || pu.surname AS patient_name,
			   l.name AS laboratory_name
		FROM appointments a
		JOIN users du ON du.id = a.doctor_id
		JOIN users pu ON pu.id = a.patient_id
		LEFT JOIN laboratories l ON l.id = a.laboratory_id
	`
	var args []interface{}
	switch {
	case scope == model.ScopeAll:
		query += " WHERE a.patient_id = $1 OR a.doctor_id = $1"
		args = append(args, userID)
	case role == model.RoleDoctor:
		query += " WHERE a.doctor_id = $1"
		args = append(args, userID)
	default:
		query += " WHERE a.patient_id = $1"
		args = append(args, userID)
	}
	query += " ORDER BY a.scheduled_at ASC"

	var rows []*model.AppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) UpdateStatusWithEvent(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, evt *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		// Moving a row back into a live status can collide with the
		// doctor-slot unique index if the slot was rebooked meanwhile.
		if err := mapError(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if evt != nil {
		if err := insertOutboxEvent(ctx, tx, evt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
