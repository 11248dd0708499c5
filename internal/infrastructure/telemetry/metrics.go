// Package telemetry records the service's prediction metrics through the
// global OpenTelemetry meter provider.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// MeterName scopes every instrument created here.
const MeterName = "github.com/bibbank/fraud-detection"

// Probes expose state owned elsewhere to the observable instruments. Nil probes
// report zero.
type Probes struct {
	ModelLoaded  func() bool
	AuditDropped func() int64
}

// Metrics implements usecase.PredictionObserver.
type Metrics struct {
	predictions        metric.Int64Counter
	duration           metric.Float64Histogram
	validationFailures metric.Int64Counter
}

// NewMetrics registers the instruments on meter.
func NewMetrics(meter metric.Meter, probes Probes) (*Metrics, error) {
	predictions, err := meter.Int64Counter("fraud_predictions_total",
		metric.WithDescription("Predictions served, by label and risk level."),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("fraud_prediction_duration_seconds",
		metric.WithDescription("Time spent validating and scoring a transaction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1),
	)
	if err != nil {
		return nil, err
	}

	validationFailures, err := meter.Int64Counter("fraud_validation_failures_total",
		metric.WithDescription("Prediction requests rejected by payload validation."),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableGauge("fraud_model_loaded",
		metric.WithDescription("1 when a model bundle is being served, 0 otherwise."),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			var v int64
			if probes.ModelLoaded != nil && probes.ModelLoaded() {
				v = 1
			}
			o.Observe(v)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableCounter("fraud_audit_dropped_total",
		metric.WithDescription("Audit records dropped because the queue was full."),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			if probes.AuditDropped != nil {
				o.Observe(probes.AuditDropped())
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		predictions:        predictions,
		duration:           duration,
		validationFailures: validationFailures,
	}, nil
}

// ObservePrediction counts a served prediction and records its latency.
func (m *Metrics) ObservePrediction(ctx context.Context, result model.PredictionResult, elapsed time.Duration) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", result.Label.String()),
		attribute.String("risk_level", result.RiskLevel.String()),
	))
	m.duration.Record(ctx, elapsed.Seconds())
}

// ObserveValidationFailure counts a rejected payload.
func (m *Metrics) ObserveValidationFailure(ctx context.Context) {
	m.validationFailures.Add(ctx, 1)
}
