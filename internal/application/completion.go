package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/domain/lifecycle"
	"prostavabot/internal/domain/quorum"
	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/pkg/metrics"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
)

// errNoLongerComplete aborts a finalize whose record changed since it was selected.
var errNoLongerComplete = errors.New("record no longer numerically complete")

var _ input.Sweep = (*CompletionSweep)(nil)

// CompletionSweep finalizes Pending records whose window closed or whose
// participants all answered, then notifies each record's owner once.
type CompletionSweep struct {
	sweepBase
}

func NewCompletionSweep(records output.RecordRepository, dispatcher output.Dispatcher, clock output.Clock, opts ...SweepOption) *CompletionSweep {
	return &CompletionSweep{sweepBase: newSweepBase("completion", records, dispatcher, clock, logger.Get(), opts)}
}

// Run performs one pass. Records are independent: a failure on one is logged
// and the pass moves on. When ctx ends, records not yet started are left for
// the next pass.
func (s *CompletionSweep) Run(ctx context.Context) error {
	start := time.Now()
	defer s.observeDuration(start)

	records, err := s.records.FindPendingCompleted(ctx, s.clock.Now())
	if err != nil {
		return fmt.Errorf("find pending completed records: %w", err)
	}
	if len(records) == 0 {
		s.log.Debug("no record to finalize")
		return nil
	}

	var finalized, skipped atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range records {
		if ctx.Err() != nil {
			skipped.Add(int64(len(records) - i))
			s.count(metrics.OutcomeSkipped)
			break
		}
		id := records[i].ID
		g.Go(func() error {
			if s.finalize(ctx, id) {
				finalized.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("completion pass done",
		zap.Int("selected", len(records)),
		zap.Int64("finalized", finalized.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("completion pass interrupted: %w", err)
	}
	return nil
}

// finalize re-evaluates one record under a compare-and-set on Pending and
// reports whether it committed.
func (s *CompletionSweep) finalize(ctx context.Context, id string) bool {
	now := s.clock.Now()
	var selected *entities.Record
	var outcome lifecycle.Outcome
	ok, err := s.records.CompareAndSet(ctx, id, entities.StatusPending, func(r *entities.Record) error {
		if !quorum.IsNumericallyComplete(r, now) {
			return errNoLongerComplete
		}
		selected = r.Clone()
		var err error
		outcome, err = lifecycle.Finalize(r, now)
		return err
	})
	switch {
	case errors.Is(err, errNoLongerComplete):
		s.log.Debug("record changed since selection", zap.String("record_id", id))
		s.count(metrics.OutcomeStale)
		return false
	case err != nil:
		s.log.Error("finalize record", zap.String("record_id", id), zap.Error(err))
		s.count(metrics.OutcomeError)
		return false
	case !ok:
		s.log.Debug("finalize lost a race, next pass re-evaluates", zap.String("record_id", id))
		s.count(metrics.OutcomeLostRace)
		return false
	}

	s.log.Info("record finalized",
		zap.String("record_id", id),
		zap.String("group_id", selected.GroupID),
		zap.Stringer("outcome", outcome),
	)
	s.count(outcome.String())
	// Command and recipient follow the record as it was selected: an accepted
	// request has already dropped its request flag.
	s.dispatch(ctx, selected, entities.FinalizedCommand(selected))
	return true
}
