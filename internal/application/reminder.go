package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/pkg/metrics"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
)

var _ input.Sweep = (*ReminderSweep)(nil)

// ReminderSweep nudges the owner of every Pending record that still misses
// ratings. It never writes records.
type ReminderSweep struct {
	sweepBase
}

func NewReminderSweep(records output.RecordRepository, dispatcher output.Dispatcher, clock output.Clock, opts ...SweepOption) *ReminderSweep {
	return &ReminderSweep{sweepBase: newSweepBase("reminder", records, dispatcher, clock, logger.Get(), opts)}
}

func (s *ReminderSweep) Run(ctx context.Context) error {
	start := time.Now()
	defer s.observeDuration(start)

	records, err := s.records.FindPendingUncompleted(ctx)
	if err != nil {
		return fmt.Errorf("find pending uncompleted records: %w", err)
	}
	if len(records) == 0 {
		s.log.Debug("no record to remind")
		return nil
	}

	var reminded atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range records {
		if ctx.Err() != nil {
			s.count(metrics.OutcomeSkipped)
			break
		}
		r := &records[i]
		g.Go(func() error {
			if s.dispatch(ctx, r, entities.ReminderCommand(r)) {
				reminded.Add(1)
				s.count(metrics.OutcomeReminded)
			} else {
				s.count(metrics.OutcomeError)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("reminder pass done",
		zap.Int("selected", len(records)),
		zap.Int64("reminded", reminded.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reminder pass interrupted: %w", err)
	}
	return nil
}
