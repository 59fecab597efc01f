package medication

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/internal/service/schedule"
	"github.com/vitalagenda/vital-api/internal/storage"
	"github.com/vitalagenda/vital-api/pkg/apperror"
)

type fakeMedicationRepo struct {
	meds      []*model.Medication
	doses     [][]*model.Dose
	events    []*model.OutboxEvent
	createErr error
}

func (f *fakeMedicationRepo) CreateWithDoses(_ context.Context, med *model.Medication, doses []*model.Dose, evt *model.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	med.ID = uuid.New()
	for _, d := range doses {
		d.ID = uuid.New()
		d.MedicationID = med.ID
		d.UserID = med.UserID
		d.Status = model.DoseStatusPending
	}
	f.meds = append(f.meds, med)
	f.doses = append(f.doses, doses)
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeMedicationRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.MedicationRow, error) {
	var rows []*model.MedicationRow
	for _, m := range f.meds {
		if m.UserID == userID {
			rows = append(rows, &model.MedicationRow{Medication: *m})
		}
	}
	return rows, nil
}

type fakeRouteRepo struct {
	routes map[uuid.UUID]*model.AdministrationRoute
}

func (f *fakeRouteRepo) List(_ context.Context) ([]*model.AdministrationRoute, error) {
	var out []*model.AdministrationRoute
	for _, r := range f.routes {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRouteRepo) Get(_ context.Context, id uuid.UUID) (*model.AdministrationRoute, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func newTestService(t *testing.T) (*Service, *fakeMedicationRepo, uuid.UUID) {
	t.Helper()

	medRepo := &fakeMedicationRepo{}
	routeID := uuid.New()
	routeRepo := &fakeRouteRepo{routes: map[uuid.UUID]*model.AdministrationRoute{
		routeID: {ID: routeID, Name: "oral"},
	}}
	photos, err := storage.NewPhotoStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(medRepo, routeRepo, photos, schedule.NewGenerator(schedule.DefaultAnchorHour))
	return svc, medRepo, routeID
}

func TestCreateMedicationExpandsDoses(t *testing.T) {
	svc, medRepo, routeID := newTestService(t)
	userID := uuid.New()

	resp, err := svc.Create(context.Background(), userID, &model.CreateMedicationRequest{
		Name:          "Metformin",
		DoseText:      "500mg",
		RouteID:       routeID.String(),
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-03",
		IntervalHours: 8,
	}, nil, nil)
	require.NoError(t, err)

	// 08:00 start, every 8h until the end of May 3rd.
	assert.Equal(t, 8, resp.DosesCreated)
	require.Len(t, medRepo.doses, 1)
	assert.Len(t, medRepo.doses[0], 8)

	first := medRepo.doses[0][0]
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), first.ScheduledAt)
	assert.Equal(t, model.DoseStatusPending, first.Status)
	assert.Equal(t, userID, first.UserID)

	require.Len(t, medRepo.events, 1)
	assert.Equal(t, model.EventMedicationCreated, medRepo.events[0].EventType)
}

func TestCreateMedicationUnknownRoute(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateMedicationRequest{
		Name:          "Metformin",
		RouteID:       uuid.NewString(),
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-03",
		IntervalHours: 8,
	}, nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func photoUpload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["photo"][0]
}

func TestCreateMedicationCleansUpPhotosOnFailure(t *testing.T) {
	root := t.TempDir()
	photos, err := storage.NewPhotoStore(root)
	require.NoError(t, err)

	routeID := uuid.New()
	routeRepo := &fakeRouteRepo{routes: map[uuid.UUID]*model.AdministrationRoute{
		routeID: {ID: routeID, Name: "oral"},
	}}
	medRepo := &fakeMedicationRepo{createErr: errors.New("deadlock detected")}
	svc := NewService(medRepo, routeRepo, photos, schedule.NewGenerator(schedule.DefaultAnchorHour))

	_, err = svc.Create(context.Background(), uuid.New(), &model.CreateMedicationRequest{
		Name:          "Metformin",
		DoseText:      "500mg",
		RouteID:       routeID.String(),
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-03",
		IntervalHours: 8,
	}, photoUpload(t, "front.jpg", []byte("front")), photoUpload(t, "back.png", []byte("back")))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))

	// Files written before the failed insert are removed again.
	entries, err := os.ReadDir(filepath.Join(root, "medications"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateMedicationBadSchedule(t *testing.T) {
	svc, medRepo, routeID := newTestService(t)

	// End before start never reaches the repository.
	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateMedicationRequest{
		Name:          "Metformin",
		RouteID:       routeID.String(),
		StartDate:     "2026-05-03",
		EndDate:       "2026-05-01",
		IntervalHours: 8,
	}, nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, medRepo.meds)
}
