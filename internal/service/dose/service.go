package dose

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

const defaultUpcomingLimit = 10

type Service struct {
	doseRepo repository.DoseRepository
	now      func() time.Time
}

func NewService(doseRepo repository.DoseRepository) *Service {
	return &Service{doseRepo: doseRepo, now: time.Now}
}

// MarkTaken transitions a pending dose to taken, recording the actual
// intake time. Notes replace the stored value only when provided.
func (s *Service) MarkTaken(ctx context.Context, callerID, doseID uuid.UUID, notes *string) (*model.Dose, error) {
	now := s.now()
	return s.transition(ctx, callerID, doseID, model.DoseStatusTaken, &now, notes, model.EventDoseTaken)
}

// MarkSkipped transitions a pending dose to skipped. No intake time is
// recorded.
func (s *Service) MarkSkipped(ctx context.Context, callerID, doseID uuid.UUID, notes *string) (*model.Dose, error) {
	return s.transition(ctx, callerID, doseID, model.DoseStatusSkipped, nil, notes, model.EventDoseSkipped)
}

// transition performs the pending -> terminal state change. Taken and
// skipped are terminal: a repeated attempt is rejected as already
// processed rather than silently succeeding, so user intent stays
// auditable. A dose that does not exist or is not owned by the caller
// is reported as not found either way.
func (s *Service) transition(ctx context.Context, callerID, doseID uuid.UUID, status model.DoseStatus, takenAt *time.Time, notes *string, eventType string) (*model.Dose, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"dose_id": doseID,
		"user_id": callerID,
		"status":  status,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	evt := &model.OutboxEvent{EventType: eventType, Payload: payload}

	ok, err := s.doseRepo.TransitionWithEvent(ctx, doseID, callerID, status, takenAt, notes, evt)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		// No pending row matched: either the dose is missing/not owned,
		// or it already reached a terminal state.
		existing, getErr := s.doseRepo.Get(ctx, doseID, callerID)
		if getErr != nil {
			if errors.Is(getErr, repository.ErrNotFound) {
				return nil, apperror.NotFound("dose")
			}
			return nil, apperror.Internal(getErr)
		}
		if existing.Status.Terminal() {
			return nil, apperror.AlreadyProcessed("dose")
		}
		return nil, apperror.NotFound("dose")
	}

	dose, err := s.doseRepo.Get(ctx, doseID, callerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dose, nil
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID) ([]*model.DoseRow, error) {
	rows, err := s.doseRepo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

// ListUpcoming returns the caller's pending doses scheduled from now
// on, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, callerID uuid.UUID, limit int) ([]*model.DoseRow, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	rows, err := s.doseRepo.ListUpcoming(ctx, callerID, s.now(), limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}
