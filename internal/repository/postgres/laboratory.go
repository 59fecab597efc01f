package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
)

func (r *laboratoryRepository) Create(ctx context.Context, lab *model.Laboratory) error {
	query := `
		INSERT INTO laboratories (
			id, user_id, name, address, phone, location, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	lab.ID = uuid.New()
	lab.CreatedAt = time.Now()
	lab.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		lab.ID,
		lab.UserID,
		lab.Name,
		lab.Address,
		lab.Phone,
		lab.Location,
		lab.CreatedAt,
		lab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create laboratory: %w", err)
	}
	return nil
}

func (r *laboratoryRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Laboratory, error) {
	query := `
		SELECT id, user_id, name, address, phone, location, created_at, updated_at
		FROM laboratories
		WHERE user_id = $1
		ORDER BY name ASC
	`
	var labs []*model.Laboratory
	if err := r.db.SelectContext(ctx, &labs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list laboratories: %w", err)
	}
	return labs, nil
}
