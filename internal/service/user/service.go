package user

import (
	"context"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

// Service exposes the user directory consumed by the booking form.
type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, role model.Role) ([]*model.UserSummary, error) {
	if role != "" && !role.Valid() {
		return nil, apperror.Validation("role must be patient or doctor")
	}

	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
