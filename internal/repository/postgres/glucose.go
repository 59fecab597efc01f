package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
)

func (r *glucoseRepository) Create(ctx context.Context, reading *model.GlucoseReading) error {
	query := `
		INSERT INTO glucose_readings (
			id, user_id, date, step_index, step, value, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	reading.ID = uuid.New()
	reading.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		reading.ID,
		reading.UserID,
		reading.Date,
		reading.StepIndex,
		reading.Step,
		reading.Value,
		reading.CreatedAt,
	)
	if err := mapError(err); err != nil {
		if err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create glucose reading: %w", err)
	}
	return nil
}

func (r *glucoseRepository) List(ctx context.Context, userID uuid.UUID, filter *model.GlucoseFilter) ([]*model.GlucoseReading, error) {
	query := `
		SELECT id, user_id, date, step_index, step, value, created_at
		FROM glucose_readings
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	argCount := 2

	if filter.From != "" {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filter.From)
		argCount++
	}
	if filter.To != "" {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filter.To)
		argCount++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, filter.Offset)

	var readings []*model.GlucoseReading
	if err := r.db.SelectContext(ctx, &readings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list glucose readings: %w", err)
	}
	return readings, nil
}

func (r *glucoseRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.GlucoseReading, error) {
	query := `
		SELECT id, user_id, date, step_index, step, value, created_at
		FROM glucose_readings
		WHERE user_id = $1 AND date = $2
	`
	var reading model.GlucoseReading
	if err := r.db.GetContext(ctx, &reading, query, userID, date); err != nil {
		return nil, mapError(err)
	}
	return &reading, nil
}

func (r *glucoseRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*model.GlucoseReading, error) {
	query := `
		SELECT id, user_id, date, step_index, step, value, created_at
		FROM glucose_readings
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`
	var reading model.GlucoseReading
	if err := r.db.GetContext(ctx, &reading, query, userID); err != nil {
		return nil, mapError(err)
	}
	return &reading, nil
}
