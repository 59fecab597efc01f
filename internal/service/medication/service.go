package medication

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/internal/service/schedule"
	"github.com/vitalagenda/vital-api/internal/storage"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Service struct {
	medRepo   repository.MedicationRepository
	routeRepo repository.AdministrationRouteRepository
	photos    *storage.PhotoStore
	scheduler *schedule.Generator
}

func NewService(medRepo repository.MedicationRepository, routeRepo repository.AdministrationRouteRepository, photos *storage.PhotoStore, scheduler *schedule.Generator) *Service {
	return &Service{
		medRepo:   medRepo,
		routeRepo: routeRepo,
		photos:    photos,
		scheduler: scheduler,
	}
}

// Create registers a prescription and expands its full dose schedule in
// one transaction: the medication and its doses are persisted together
// or not at all.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateMedicationRequest, front, back *multipart.FileHeader) (*model.CreateMedicationResponse, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, apperror.Validation("route id must be a valid UUID")
	}
	if _, err := s.routeRepo.Get(ctx, routeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation("the administration route does not exist")
		}
		return nil, apperror.Internal(err)
	}

	times, err := s.scheduler.Expand(req.StartDate, req.EndDate, req.IntervalHours)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidSchedule) {
			return nil, apperror.ValidationWrap("invalid dose schedule", err)
		}
		return nil, apperror.Internal(err)
	}

	startDate, _ := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	endDate, _ := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)

	med := &model.Medication{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		DoseText:      strings.TrimSpace(req.DoseText),
		RouteID:       routeID,
		StartDate:     startDate,
		EndDate:       endDate,
		IntervalHours: req.IntervalHours,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        model.MedicationStatusActive,
	}

	if front != nil {
		ref, err := s.photos.Save(front)
		if err != nil {
			return nil, apperror.ValidationWrap("invalid front photo", err)
		}
		med.PhotoFront = &ref
	}
	if back != nil {
		ref, err := s.photos.Save(back)
		if err != nil {
			s.discardPhotos(med)
			return nil, apperror.ValidationWrap("invalid back photo", err)
		}
		med.PhotoBack = &ref
	}

	doses := make([]*model.Dose, len(times))
	for i, t := range times {
		doses[i] = &model.Dose{ScheduledAt: t}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"user_id":        userID,
		"name":           med.Name,
		"interval_hours": med.IntervalHours,
		"doses":          len(doses),
	})
	if err != nil {
		s.discardPhotos(med)
		return nil, apperror.Internal(err)
	}
	evt := &model.OutboxEvent{
		EventType: model.EventMedicationCreated,
		Payload:   payload,
	}

	if err := s.medRepo.CreateWithDoses(ctx, med, doses, evt); err != nil {
		s.discardPhotos(med)
		return nil, apperror.Internal(err)
	}

	return &model.CreateMedicationResponse{
		Medication:   med,
		DosesCreated: len(doses),
	}, nil
}

// discardPhotos removes files saved for a medication that was never
// persisted, so a failed transaction leaves no orphans on disk.
func (s *Service) discardPhotos(med *model.Medication) {
	if med.PhotoFront != nil {
		_ = s.photos.Remove(*med.PhotoFront)
	}
	if med.PhotoBack != nil {
		_ = s.photos.Remove(*med.PhotoBack)
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*model.MedicationRow, error) {
	rows, err := s.medRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}
