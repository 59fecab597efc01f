// Package viaadmin serves the static routes-of-administration catalog.
package viaadmin

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

const (
	cacheKey = "administration_routes"
	cacheTTL = 5 * time.Minute
)

// Service reads the catalog through a short-lived cache; the underlying
// reference data changes only on deploys.
type Service struct {
	repo  repository.AdministrationRouteRepository
	cache *gocache.Cache
}

func NewService(repo repository.AdministrationRouteRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.AdministrationRoute, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*model.AdministrationRoute), nil
	}

	routes, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Set(cacheKey, routes, gocache.DefaultExpiration)
	return routes, nil
}
