package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/infrastructure/messaging"
	"github.com/bibbank/fraud-detection/pkg/events"
	pkgkafka "github.com/bibbank/fraud-detection/pkg/kafka"
)

type mockProducer struct {
	err      error
	topic    string
	messages []pkgkafka.Message
	calls    int
}

func (m *mockProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	m.calls++
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	pub := messaging.NewKafkaPublisher(producer, "fraud.predictions", testLogger())

	id := uuid.New()
	completed := event.PredictionCompleted{PredictionID: id, Prediction: "Fraud", RiskLevel: "High", PredictedAt: time.Now()}
	highRisk := event.HighRiskDetected{PredictionID: id, RiskLevel: "High", DetectedAt: time.Now()}

	require.NoError(t, pub.Publish(context.Background(), completed, highRisk))

	assert.Equal(t, 1, producer.calls)
	assert.Equal(t, "fraud.predictions", producer.topic)
	require.Len(t, producer.messages, 2)

	first := producer.messages[0]
	assert.Equal(t, id.String(), string(first.Key))
	envelope, err := events.FromHeaders(first.Headers, first.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventTypePredictionCompleted, envelope.Type)
	assert.Equal(t, "prediction", envelope.AggregateType)
	assert.Equal(t, "fraud-detection", envelope.Source)
	assert.Equal(t, id, envelope.AggregateID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(first.Value, &body))
	assert.Equal(t, "Fraud", body["prediction"])

	assert.Equal(t, event.EventTypeHighRiskDetected, producer.messages[1].Headers[events.HeaderEventType])
}

func TestKafkaPublisher_NoEvents(t *testing.T) {
	producer := &mockProducer{}
	require.NoError(t, messaging.NewKafkaPublisher(producer, "t", testLogger()).Publish(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestKafkaPublisher_RejectsUnknownEvents(t *testing.T) {
	producer := &mockProducer{}
	err := messaging.NewKafkaPublisher(producer, "t", testLogger()).Publish(context.Background(), "not an event")
	require.Error(t, err)
	assert.Zero(t, producer.calls)
}

func TestKafkaPublisher_WrapsProducerError(t *testing.T) {
	boom := errors.New("broker down")
	producer := &mockProducer{err: boom}

	err := messaging.NewKafkaPublisher(producer, "t", testLogger()).
		Publish(context.Background(), event.PredictionCompleted{PredictionID: uuid.New()})
	assert.ErrorIs(t, err, boom)
}
