package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/infrastructure/audit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(level valueobject.RiskLevel) model.PredictionRecord {
	return model.PredictionRecord{
		ID: uuid.New(),
		Result: model.PredictionResult{
			Label:     valueobject.LabelNormal,
			RiskLevel: level,
			Timestamp: time.Now().UTC(),
		},
	}
}

// recordingSink collects records; when gate is non-nil each write waits on it.
type recordingSink struct {
	gate    chan struct{}
	err     error
	mu      sync.Mutex
	records []model.PredictionRecord
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(_ context.Context, r model.PredictionRecord) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{err: errors.New("sink down")}
	d := audit.NewDispatcher([]audit.Sink{b, a}, 4, testLogger())

	for i := 0; i < 3; i++ {
		d.Record(context.Background(), testRecord(valueobject.RiskLevelLow))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 3, a.count(), "a failing sink does not stop the others")
	assert.Equal(t, 3, b.count())
	assert.Zero(t, d.Dropped())
}

func TestDispatcher_NeverBlocksAndDropsWhenFull(t *testing.T) {
	sink := &recordingSink{gate: make(chan struct{})}
	d := audit.NewDispatcher([]audit.Sink{sink}, 2, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			d.Record(context.Background(), testRecord(valueobject.RiskLevelLow))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	// One record may be held by the worker, two more sit in the queue.
	assert.GreaterOrEqual(t, d.Dropped(), int64(7))

	close(sink.gate)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int64(10), d.Dropped()+int64(sink.count()))
}

func TestDispatcher_CancelledRequestContextStillDelivers(t *testing.T) {
	sink := &recordingSink{}
	d := audit.NewDispatcher([]audit.Sink{sink}, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	d.Record(ctx, testRecord(valueobject.RiskLevelLow))
	cancel()

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, sink.count())
}

func TestDispatcher_RecordAfterCloseIsDropped(t *testing.T) {
	d := audit.NewDispatcher(nil, 1, testLogger())
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Record(context.Background(), testRecord(valueobject.RiskLevelLow))
	})
	assert.Equal(t, int64(1), d.Dropped())
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sink := &recordingSink{gate: make(chan struct{})}
	d := audit.NewDispatcher([]audit.Sink{sink}, 1, testLogger())
	d.Record(context.Background(), testRecord(valueobject.RiskLevelLow))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(sink.gate)
	require.NoError(t, d.Close(context.Background()))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		audit.Nop{}.Record(context.Background(), testRecord(valueobject.RiskLevelHigh))
	})
}

type mockPublisher struct {
	events []interface{}
}

func (m *mockPublisher) Publish(_ context.Context, evts ...interface{}) error {
	m.events = append(m.events, evts...)
	return nil
}

type mockRepository struct {
	saved []model.PredictionRecord
}

func (m *mockRepository) Save(_ context.Context, r model.PredictionRecord) error {
	m.saved = append(m.saved, r)
	return nil
}

func TestEventSink(t *testing.T) {
	pub := &mockPublisher{}
	sink := audit.NewEventSink(pub)

	require.NoError(t, sink.Write(context.Background(), testRecord(valueobject.RiskLevelMedium)))
	require.Len(t, pub.events, 1)
	assert.IsType(t, event.PredictionCompleted{}, pub.events[0])

	high := testRecord(valueobject.RiskLevelVeryHigh)
	require.NoError(t, sink.Write(context.Background(), high))
	require.Len(t, pub.events, 3)
	hr, ok := pub.events[2].(event.HighRiskDetected)
	require.True(t, ok)
	assert.Equal(t, high.ID, hr.PredictionID)
}

func TestRepositorySink(t *testing.T) {
	repo := &mockRepository{}
	r := testRecord(valueobject.RiskLevelLow)

	require.NoError(t, audit.NewRepositorySink(repo).Write(context.Background(), r))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, r.ID, repo.saved[0].ID)
}
