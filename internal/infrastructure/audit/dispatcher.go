// Package audit fans completed predictions out to the audit sinks on a
// background worker so the request path never waits on Kafka or PostgreSQL.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

const (
	defaultBuffer       = 256
	defaultWriteTimeout = 5 * time.Second
)

// Sink receives audit records from the dispatcher worker.
type Sink interface {
	Name() string
	Write(ctx context.Context, record model.PredictionRecord) error
}

type item struct {
	ctx    context.Context
	record model.PredictionRecord
}

// Dispatcher implements port.PredictionRecorder with a bounded queue and a single worker.
type Dispatcher struct {
	logger       *slog.Logger
	queue        chan item
	done         chan struct{}
	sinks        []Sink
	writeTimeout time.Duration
	dropped      atomic.Int64
	mu           sync.RWMutex
	closed       bool
}

// NewDispatcher starts the worker. buffer <= 0 selects the default queue size.
func NewDispatcher(sinks []Sink, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		logger:       logger,
		queue:        make(chan item, buffer),
		done:         make(chan struct{}),
		sinks:        sinks,
		writeTimeout: defaultWriteTimeout,
	}
	go d.run()
	return d
}

// Record enqueues a record without blocking. When the queue is full, or the
// dispatcher is closed, the record is dropped and counted.
func (d *Dispatcher) Record(ctx context.Context, record model.PredictionRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(record, "closed")
		return
	}

	select {
	case d.queue <- item{ctx: context.WithoutCancel(ctx), record: record}:
	default:
		d.drop(record, "queue full")
	}
}

// Dropped returns the number of records dropped so far.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting records and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(record model.PredictionRecord, reason string) {
	d.dropped.Add(1)
	d.logger.Warn("audit record dropped",
		slog.String("prediction_id", record.ID.String()),
		slog.String("reason", reason),
	)
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for it := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(it.ctx, d.writeTimeout)
			if err := sink.Write(ctx, it.record); err != nil {
				d.logger.ErrorContext(ctx, "audit sink failed",
					slog.String("sink", sink.Name()),
					slog.String("prediction_id", it.record.ID.String()),
					slog.String("error", err.Error()),
				)
			}
			cancel()
		}
	}
}

// Nop is the recorder used when no audit sink is configured.
type Nop struct{}

// Record discards the record.
func (Nop) Record(context.Context, model.PredictionRecord) {}
