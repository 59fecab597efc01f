package laboratory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Service struct {
	repo repository.LaboratoryRepository
}

func NewService(repo repository.LaboratoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *model.CreateLaboratoryRequest) (*model.Laboratory, error) {
	lab := &model.Laboratory{
		UserID:   callerID,
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		Phone:    strings.TrimSpace(req.Phone),
		Location: strings.TrimSpace(req.Location),
	}

	if err := s.repo.Create(ctx, lab); err != nil {
		return nil, apperror.Internal(err)
	}
	return lab, nil
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID) ([]*model.Laboratory, error) {
	labs, err := s.repo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return labs, nil
}
