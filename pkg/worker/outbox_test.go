package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/pkg/logger"
	"github.com/vitalagenda/vital-api/pkg/messaging"
	"github.com/vitalagenda/vital-api/pkg/metrics"
)

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
}

func (f *fakeOutboxRepo) Create(ctx context.Context, evt *model.OutboxEvent) error {
	f.pending = append(f.pending, evt)
	return nil
}

func (f *fakeOutboxRepo) GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	if f.failed == nil {
		f.failed = make(map[uuid.UUID]string)
	}
	f.failed[id] = errorMessage
	return nil
}

type published struct {
	channel string
	message interface{}
}

type fakeBroker struct {
	published  []published
	publishErr error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{channel: channel, message: message})
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func testMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		OutboxProcessingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "outbox_processing_seconds"}),
		OutboxEventsProcessed:   prometheus.NewCounter(prometheus.CounterOpts{Name: "outbox_events_processed_total"}),
		OutboxEventsFailed:      prometheus.NewCounter(prometheus.CounterOpts{Name: "outbox_events_failed_total"}),
	}
}

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	cfg := OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}
	return NewOutboxProcessor(repo, broker, cfg, log, testMetrics())
}

func outboxEvent(t *testing.T, eventType string, payload interface{}) *model.OutboxEvent {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	evt1 := outboxEvent(t, model.EventDoseTaken, map[string]string{"dose_id": "d1"})
	evt2 := outboxEvent(t, model.EventMedicationCreated, map[string]string{"medication_id": "m1"})
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt1, evt2}}
	broker := &fakeBroker{}

	p := newTestProcessor(repo, broker)

	err := p.processEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, broker.published, 2)
	assert.Equal(t, model.EventDoseTaken, broker.published[0].channel)

	msg, ok := broker.published[0].message.(messaging.Message)
	require.True(t, ok)
	assert.Equal(t, model.EventDoseTaken, msg.Type)
	assert.JSONEq(t, string(evt1.Payload), string(msg.Payload.(json.RawMessage)))

	assert.ElementsMatch(t, []uuid.UUID{evt1.ID, evt2.ID}, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	evt := outboxEvent(t, model.EventAppointmentStatusChanged, map[string]string{"appointment_id": "a1"})
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt}}
	broker := &fakeBroker{publishErr: errors.New("broker unavailable")}

	p := newTestProcessor(repo, broker)

	err := p.processEvents(context.Background())
	require.NoError(t, err)

	assert.Empty(t, repo.processed)
	require.Contains(t, repo.failed, evt.ID)
	assert.Equal(t, "broker unavailable", repo.failed[evt.ID])
}

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for i := 0; i < 5; i++ {
		repo.pending = append(repo.pending, outboxEvent(t, model.EventDoseSkipped, map[string]int{"n": i}))
	}
	broker := &fakeBroker{}

	p := newTestProcessor(repo, broker)
	p.config.BatchSize = 3

	err := p.processEvents(context.Background())
	require.NoError(t, err)

	assert.Len(t, broker.published, 3)
	assert.Len(t, repo.processed, 3)
}
