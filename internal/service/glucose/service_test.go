package glucose

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

type fakeGlucoseRepo struct {
	readings []*model.GlucoseReading
}

func (f *fakeGlucoseRepo) Create(_ context.Context, reading *model.GlucoseReading) error {
	for _, r := range f.readings {
		if r.UserID == reading.UserID && r.Date.Equal(reading.Date) {
			return repository.ErrDuplicate
		}
	}
	reading.ID = uuid.New()
	reading.CreatedAt = time.Now()
	f.readings = append(f.readings, reading)
	return nil
}

func (f *fakeGlucoseRepo) List(_ context.Context, userID uuid.UUID, _ *model.GlucoseFilter) ([]*model.GlucoseReading, error) {
	var out []*model.GlucoseReading
	for _, r := range f.readings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeGlucoseRepo) GetByDate(_ context.Context, userID uuid.UUID, date time.Time) (*model.GlucoseReading, error) {
	for _, r := range f.readings {
		if r.UserID == userID && r.Date.Equal(date) {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGlucoseRepo) GetLatest(_ context.Context, userID uuid.UUID) (*model.GlucoseReading, error) {
	var latest *model.GlucoseReading
	for _, r := range f.readings {
		if r.UserID != userID {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func newTestService() (*Service, *fakeGlucoseRepo) {
	repo := &fakeGlucoseRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 14, 30, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateReading(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	reading, err := svc.Create(context.Background(), userID, &model.CreateGlucoseRequest{
		Date:      "2026-04-10",
		StepIndex: 0,
		Step:      "before_breakfast",
		Value:     95.5,
	})
	require.NoError(t, err)

	assert.Equal(t, userID, reading.UserID)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), reading.Date)
	assert.Equal(t, 95.5, reading.Value)
}

func TestCreateReadingDuplicateDate(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	req := &model.CreateGlucoseRequest{
		Date:  "2026-04-10",
		Step:  "before_breakfast",
		Value: 95,
	}
	_, err := svc.Create(context.Background(), userID, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Another user records for the same date just fine.
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestCreateReadingStepMismatch(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateGlucoseRequest{
		Date:      "2026-04-10",
		StepIndex: 2,
		Step:      "before_breakfast",
		Value:     95,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestTodayNoReadings(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Today(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.False(t, resp.Exists)
	assert.Nil(t, resp.Reading)
	assert.Equal(t, "before_breakfast", resp.NextStep)
}

func TestTodayExistingReading(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, &model.CreateGlucoseRequest{
		Date:      "2026-04-10",
		StepIndex: 1,
		Step:      "after_breakfast",
		Value:     130,
	})
	require.NoError(t, err)

	resp, err := svc.Today(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, resp.Exists)
	require.NotNil(t, resp.Reading)
	assert.Equal(t, "before_lunch", resp.NextStep)
}

func TestStepCycleSkipsCalendarGaps(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	// Last reading days ago at the final step: the cycle wraps to the
	// first step no matter how much time passed.
	_, err := svc.Create(context.Background(), userID, &model.CreateGlucoseRequest{
		Date:      "2026-04-02",
		StepIndex: 5,
		Step:      "after_dinner",
		Value:     110,
	})
	require.NoError(t, err)

	resp, err := svc.Today(context.Background(), userID)
	require.NoError(t, err)

	assert.False(t, resp.Exists)
	assert.Equal(t, "before_breakfast", resp.NextStep)
}
