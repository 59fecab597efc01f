package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
)

func (r *doseRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.Dose, error) {
	query := `
		SELECT id, medication_id, user_id, scheduled_at, status,
			   taken_at, notes, created_at, updated_at
		FROM doses
		WHERE id = $1 AND user_id = $2
	`
	var dose model.Dose
	if err := r.db.GetContext(ctx, &dose, query, id, userID); err != nil {
		return nil, mapError(err)
	}
	return &dose, nil
}

func (r *doseRepository) TransitionWithEvent(ctx context.Context, id, userID uuid.UUID, status model.DoseStatus, takenAt *time.Time, notes *string, evt *model.OutboxEvent) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Guarding on the pending status makes the transition race-safe:
	// a second concurrent attempt matches zero rows.
	result, err := tx.ExecContext(ctx, `
		UPDATE doses
		SET status = $1,
			taken_at = COALESCE($2, taken_at),
			notes = COALESCE($3, notes),
			updated_at = $4
		WHERE id = $5 AND user_id = $6 AND status = $7
	`,
		status, takenAt, notes, time.Now(), id, userID, model.DoseStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition dose: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if evt != nil {
		if err := insertOutboxEvent(ctx, tx, evt); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (r *doseRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.DoseRow, error) {
	query := `
		SELECT d.id, d.medication_id, d.user_id, d.scheduled_at, d.status,
			   d.taken_at, d.notes, d.created_at, d.updated_at,
			   m.name AS medication_name, m.dose_text
		FROM doses d
		JOIN medications m ON m.id = d.medication_id
		WHERE d.user_id = $1
		ORDER BY d.scheduled_at DESC
	`
	var rows []*model.DoseRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list doses: %w", err)
	}
	return rows, nil
}

func (r *doseRepository) ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]*model.DoseRow, error) {
	query := `
		SELECT d.id, d.medication_id, d.user_id, d.scheduled_at, d.status,
			   d.taken_at, d.notes, d.created_at, d.updated_at,
			   m.name AS medication_name, m.dose_text
		FROM doses d
		JOIN medications m ON m.id = d.medication_id
		WHERE d.user_id = $1
		  AND d.status = $2
		  AND d.scheduled_at >= $3
		ORDER BY d.scheduled_at ASC
		LIMIT $4
	`
	var rows []*model.DoseRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, model.DoseStatusPending, after, limit); err != nil {
		return nil, fmt.Errorf("failed to list upcoming doses: %w", err)
	}
	return rows, nil
}
