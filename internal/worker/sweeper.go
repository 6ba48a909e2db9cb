// Package worker runs the periodic sweeps on their own schedules.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
)

// Sweeper triggers one sweep on a fixed interval. Each pass gets at most one
// interval to finish, so a slow pass never holds back the next trigger; passes
// of the same sweep never overlap.
type Sweeper struct {
	sweep    input.Sweep
	interval time.Duration
	locker   output.Locker
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a Sweeper. locker may be nil when a single process runs the sweeps.
func NewSweeper(sweep input.Sweep, interval time.Duration, locker output.Locker) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		locker:   locker,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start blocks until ctx ends or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	log := logger.With(zap.String("sweep", s.sweep.Name()))
	log.Info("⏱️ sweep scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			log.Info("sweep scheduler stopped (context cancelled)")
			return
		case <-s.stopCh:
			log.Info("sweep scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, log)
		}
	}
}

// Stop ends the schedule and waits for the running pass.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Sweeper) runOnce(ctx context.Context, log *zap.Logger) {
	passCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if s.locker != nil {
		release, err := s.locker.Acquire(passCtx, "sweep:"+s.sweep.Name(), s.interval)
		if err != nil {
			log.Debug("sweep pass skipped, lock held elsewhere", zap.Error(err))
			return
		}
		defer func() {
			if err := release(context.WithoutCancel(passCtx)); err != nil {
				log.Warn("release sweep lock", zap.Error(err))
			}
		}()
	}

	if err := s.sweep.Run(passCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("sweep pass cut at its deadline, remaining records wait for the next pass", zap.Error(err))
			return
		}
		log.Error("sweep pass failed", zap.Error(err))
	}
}
