package dose

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type fakeDoseRepo struct {
	doses  map[uuid.UUID]*model.Dose
	events []*model.OutboxEvent
}

func newFakeDoseRepo() *fakeDoseRepo {
	return &fakeDoseRepo{doses: make(map[uuid.UUID]*model.Dose)}
}

func (f *fakeDoseRepo) add(userID uuid.UUID, status model.DoseStatus) *model.Dose {
	d := &model.Dose{
		Base:         model.Base{ID: uuid.New()},
		MedicationID: uuid.New(),
		UserID:       userID,
		ScheduledAt:  time.Now().Add(time.Hour),
		Status:       status,
	}
	f.doses[d.ID] = d
	return d
}

func (f *fakeDoseRepo) Get(_ context.Context, id, userID uuid.UUID) (*model.Dose, error) {
	d, ok := f.doses[id]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDoseRepo) TransitionWithEvent(_ context.Context, id, userID uuid.UUID, status model.DoseStatus, takenAt *time.Time, notes *string, evt *model.OutboxEvent) (bool, error) {
	d, ok := f.doses[id]
	if !ok || d.UserID != userID || d.Status != model.DoseStatusPending {
		return false, nil
	}
	d.Status = status
	if takenAt != nil {
		d.TakenAt = takenAt
	}
	if notes != nil {
		d.Notes = notes
	}
	f.events = append(f.events, evt)
	return true, nil
}

func (f *fakeDoseRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.DoseRow, error) {
	var rows []*model.DoseRow
	for _, d := range f.doses {
		if d.UserID == userID {
			rows = append(rows, &model.DoseRow{Dose: *d})
		}
	}
	return rows, nil
}

func (f *fakeDoseRepo) ListUpcoming(_ context.Context, userID uuid.UUID, after time.Time, limit int) ([]*model.DoseRow, error) {
	var rows []*model.DoseRow
	for _, d := range f.doses {
		if d.UserID == userID && d.Status == model.DoseStatusPending && !d.ScheduledAt.Before(after) {
			rows = append(rows, &model.DoseRow{Dose: *d})
		}
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func TestMarkTaken(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)
	userID := uuid.New()
	d := repo.add(userID, model.DoseStatusPending)

	notes := "with breakfast"
	got, err := svc.MarkTaken(context.Background(), userID, d.ID, &notes)
	require.NoError(t, err)

	assert.Equal(t, model.DoseStatusTaken, got.Status)
	require.NotNil(t, got.TakenAt)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "with breakfast", *got.Notes)
	require.Len(t, repo.events, 1)
	assert.Equal(t, model.EventDoseTaken, repo.events[0].EventType)
}

func TestMarkSkippedLeavesTakenAtEmpty(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)
	userID := uuid.New()
	d := repo.add(userID, model.DoseStatusPending)

	got, err := svc.MarkSkipped(context.Background(), userID, d.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, model.DoseStatusSkipped, got.Status)
	assert.Nil(t, got.TakenAt)
	require.Len(t, repo.events, 1)
	assert.Equal(t, model.EventDoseSkipped, repo.events[0].EventType)
}

func TestRepeatedTransitionRejected(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)
	userID := uuid.New()
	d := repo.add(userID, model.DoseStatusPending)

	_, err := svc.MarkTaken(context.Background(), userID, d.ID, nil)
	require.NoError(t, err)

	_, err = svc.MarkTaken(context.Background(), userID, d.ID, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Skipping after taking is rejected the same way.
	_, err = svc.MarkSkipped(context.Background(), userID, d.ID, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Len(t, repo.events, 1)
}

func TestTransitionUnknownDose(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)

	_, err := svc.MarkTaken(context.Background(), uuid.New(), uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestTransitionForeignDoseLooksMissing(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)
	owner := uuid.New()
	d := repo.add(owner, model.DoseStatusPending)

	_, err := svc.MarkTaken(context.Background(), uuid.New(), d.ID, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, model.DoseStatusPending, repo.doses[d.ID].Status)
}

func TestListUpcomingDefaultsLimit(t *testing.T) {
	repo := newFakeDoseRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	userID := uuid.New()

	for i := 0; i < 15; i++ {
		d := repo.add(userID, model.DoseStatusPending)
		d.ScheduledAt = time.Date(2026, 3, 1, i+1, 0, 0, 0, time.UTC)
	}

	rows, err := svc.ListUpcoming(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}
