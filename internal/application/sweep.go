package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/metrics"
	"prostavabot/internal/ports/output"
)

const (
	defaultSweepConcurrency = 8
	dispatchTimeout         = 10 * time.Second
)

// SweepOption configures a sweep.
type SweepOption func(*sweepBase)

// WithConcurrency bounds how many records a pass handles at once.
func WithConcurrency(n int) SweepOption {
	return func(b *sweepBase) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithMetrics attaches prometheus collectors.
func WithMetrics(m *metrics.Metrics) SweepOption {
	return func(b *sweepBase) {
		b.metrics = m
	}
}

// sweepBase holds what both sweeps share. Sweeps keep no state between passes.
type sweepBase struct {
	name        string
	records     output.RecordRepository
	dispatcher  output.Dispatcher
	clock       output.Clock
	metrics     *metrics.Metrics
	concurrency int
	log         *zap.Logger
}

func newSweepBase(name string, records output.RecordRepository, dispatcher output.Dispatcher, clock output.Clock, log *zap.Logger, opts []SweepOption) sweepBase {
	b := sweepBase{
		name:        name,
		records:     records,
		dispatcher:  dispatcher,
		clock:       clock,
		concurrency: defaultSweepConcurrency,
		log:         log.With(zap.String("sweep", name)),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *sweepBase) Name() string { return b.name }

// dispatch hands the notification over and only logs a failure. The record's
// committed state never depends on delivery.
func (b *sweepBase) dispatch(ctx context.Context, r *entities.Record, code entities.CommandCode) bool {
	userID := r.Owner()
	if userID == "" {
		b.log.Warn("record has no owner to notify", zap.String("record_id", r.ID), zap.String("code", string(code)))
		b.countDispatch(code, "failed")
		return false
	}
	// The pass deadline must not cancel a notification for an already committed record.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	if err := b.dispatcher.Dispatch(dctx, r.GroupID, userID, code); err != nil {
		b.log.Warn("notification not delivered",
			zap.String("record_id", r.ID),
			zap.String("group_id", r.GroupID),
			zap.String("user_id", userID),
			zap.String("code", string(code)),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrDispatchFailed, err)),
		)
		b.countDispatch(code, "failed")
		return false
	}
	b.countDispatch(code, "success")
	return true
}

func (b *sweepBase) count(outcome string) {
	if b.metrics != nil {
		b.metrics.SweepRecordsTotal.WithLabelValues(b.name, outcome).Inc()
	}
}

func (b *sweepBase) countDispatch(code entities.CommandCode, status string) {
	if b.metrics != nil {
		b.metrics.DispatchTotal.WithLabelValues(string(code), status).Inc()
	}
}

func (b *sweepBase) observeDuration(start time.Time) {
	if b.metrics != nil {
		b.metrics.SweepDuration.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
	}
}
