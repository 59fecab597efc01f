package glucose

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type Service struct {
	repo repository.GlucoseRepository
	now  func() time.Time
}

func NewService(repo repository.GlucoseRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records the day's reading. Calendar dates are UTC-normalized;
// at most one reading exists per user per date, enforced by the storage
// unique constraint.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *model.CreateGlucoseRequest) (*model.GlucoseReading, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, apperror.Validation("date must be a valid YYYY-MM-DD date")
	}

	if model.GlucoseStepIndex(req.Step) != req.StepIndex {
		return nil, apperror.Validation("step label does not match step index")
	}

	reading := &model.GlucoseReading{
		UserID:    callerID,
		Date:      date,
		StepIndex: req.StepIndex,
		Step:      req.Step,
		Value:     req.Value,
	}

	if err := s.repo.Create(ctx, reading); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("a reading already exists for that date")
		}
		return nil, apperror.Internal(err)
	}
	return reading, nil
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID, filter *model.GlucoseFilter) ([]*model.GlucoseReading, error) {
	readings, err := s.repo.List(ctx, callerID, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return readings, nil
}

// Today reports whether the caller already recorded a reading for the
// current UTC date, plus the next checkpoint in the fixed six-step
// cycle. The cycle advances from the latest reading regardless of
// calendar gaps.
func (s *Service) Today(ctx context.Context, callerID uuid.UUID) (*model.GlucoseTodayResponse, error) {
	today := s.today()

	reading, err := s.repo.GetByDate(ctx, callerID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	latest, err := s.repo.GetLatest(ctx, callerID)
	nextStep := model.GlucoseSteps[0]
	if err == nil {
		_, nextStep = model.NextGlucoseStep(latest.StepIndex)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	return &model.GlucoseTodayResponse{
		Exists:   reading != nil,
		Reading:  reading,
		NextStep: nextStep,
	}, nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
