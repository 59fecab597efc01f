package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
)

func (r *administrationRouteRepository) List(ctx context.Context) ([]*model.AdministrationRoute, error) {
	query := `
		SELECT id, name, description
		FROM administration_routes
		ORDER BY name ASC
	`
	var routes []*model.AdministrationRoute
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("failed to list administration routes: %w", err)
	}
	return routes, nil
}

func (r *administrationRouteRepository) Get(ctx context.Context, id uuid.UUID) (*model.AdministrationRoute, error) {
	query := `
		SELECT id, name, description
		FROM administration_routes
		WHERE id = $1
	`
	var route model.AdministrationRoute
	if err := r.db.GetContext(ctx, &route, query, id); err != nil {
		return nil, mapError(err)
	}
	return &route, nil
}
