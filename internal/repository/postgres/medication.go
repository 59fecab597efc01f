package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
)

func (r *medicationRepository) CreateWithDoses(ctx context.Context, med *model.Medication, doses []*model.Dose, evt *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO medications (
			id, user_id, name, dose_text, route_id, start_date, end_date,
			interval_hours, photo_front, photo_back, notes, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		med.ID,
		med.UserID,
		med.Name,
		med.DoseText,
		med.RouteID,
		med.StartDate,
		med.EndDate,
		med.IntervalHours,
		med.PhotoFront,
		med.PhotoBack,
		med.Notes,
		med.Status,
		med.CreatedAt,
		med.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", mapError(err))
	}

	// The prescription and its schedule must never exist without each
	// other: all dose rows go in the same transaction.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO doses (
			id, medication_id, user_id, scheduled_at, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare dose insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, dose := range doses {
		dose.ID = uuid.New()
		dose.MedicationID = med.ID
		dose.UserID = med.UserID
		dose.Status = model.DoseStatusPending
		dose.CreatedAt = now
		dose.UpdatedAt = now

		if _, err := stmt.ExecContext(ctx,
			dose.ID, dose.MedicationID, dose.UserID,
			dose.ScheduledAt, dose.Status, dose.CreatedAt, dose.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create dose: %w", err)
		}
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

func (r *medicationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.MedicationRow, error) {
	query := `
		SELECT m.id, m.user_id, m.name, m.dose_text, m.route_id,
			   m.start_date, m.end_date, m.interval_hours,
			   m.photo_front, m.photo_back, m.notes, m.status,
			   m.created_at, m.updated_at,
			   ar.name AS route_name
		FROM medications m
		JOIN administration_routes ar ON ar.id = m.route_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
	`
	var rows []*model.MedicationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return rows, nil
}
