package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/domain/lifecycle"
	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/pkg/metrics"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
)

var _ input.RecordUseCase = (*RecordService)(nil)

// RecordService runs the interactive record actions. Every write goes through
// RecordRepository.CompareAndSet so a concurrent sweep or user never gets clobbered.
type RecordService struct {
	records output.RecordRepository
	groups  output.GroupRepository
	clock   output.Clock
	metrics *metrics.Metrics
}

func NewRecordService(
	records output.RecordRepository,
	groups output.GroupRepository,
	clock output.Clock,
	m *metrics.Metrics,
) *RecordService {
	return &RecordService{
		records: records,
		groups:  groups,
		clock:   clock,
		metrics: m,
	}
}

func (s *RecordService) Create(ctx context.Context, in input.CreateRecordInput) (*entities.Record, error) {
	if strings.TrimSpace(in.GroupID) == "" || strings.TrimSpace(in.Creator) == "" {
		return nil, fmt.Errorf("%w: group and creator are required", domain.ErrIncompleteRecord)
	}
	author := in.Creator
	if in.IsRequest {
		author = strings.TrimSpace(in.Author)
		if author == in.Creator {
			return nil, fmt.Errorf("%w: a request must name someone other than its creator", domain.ErrIncompleteRecord)
		}
	}
	now := s.clock.Now()
	record := &entities.Record{
		ID:           uuid.NewString(),
		GroupID:      in.GroupID,
		Author:       author,
		Creator:      in.Creator,
		IsRequest:    in.IsRequest,
		Status:       entities.StatusNew,
		Data:         in.Data,
		Participants: []entities.Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.observe("create", err)
		return nil, fmt.Errorf("create record: %w", err)
	}
	s.observe("create", nil)
	return record, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (*entities.Record, error) {
	return s.records.FindByID(ctx, id)
}

func (s *RecordService) ListByGroup(ctx context.Context, groupID string) ([]entities.Record, error) {
	return s.records.FindByGroupID(ctx, groupID)
}

func (s *RecordService) PendingForAuthor(ctx context.Context, groupID, userID string) (*entities.Record, error) {
	return s.records.FindPendingByAuthor(ctx, groupID, userID)
}

func (s *RecordService) UpdateData(ctx context.Context, id, userID string, data entities.EventData) (*entities.Record, error) {
	return s.transition(ctx, "edit", id, entities.StatusNew, func(r *entities.Record) error {
		if !lifecycle.CanManage(r, userID) {
			return domain.ErrNotAuthor
		}
		return lifecycle.UpdateData(r, data)
	})
}

func (s *RecordService) Claim(ctx context.Context, id, userID string) (*entities.Record, error) {
	return s.transition(ctx, "claim", id, entities.StatusNew, func(r *entities.Record) error {
		return lifecycle.Claim(r, userID)
	})
}

// Announce joins the group settings onto the record and opens its rating window.
func (s *RecordService) Announce(ctx context.Context, id, userID string) (*entities.Record, error) {
	current, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanManage(current, userID) {
		return nil, domain.ErrNotAuthor
	}
	group, err := s.groups.FindByID(ctx, current.GroupID)
	if err != nil {
		return nil, fmt.Errorf("load group settings: %w", err)
	}
	// The store refuses a second pending record of an author as well; this
	// lookup only answers early.
	if current.Author != "" {
		other, err := s.records.FindPendingByAuthor(ctx, current.GroupID, current.Author)
		switch {
		case err == nil && other.ID != current.ID:
			return nil, domain.ErrPendingExists
		case err != nil && !errors.Is(err, domain.ErrRecordNotFound):
			return nil, err
		}
	}
	now := s.clock.Now()
	return s.transition(ctx, "announce", id, entities.StatusNew, func(r *entities.Record) error {
		if !lifecycle.CanManage(r, userID) {
			return domain.ErrNotAuthor
		}
		return lifecycle.Announce(r, group.Settings, now)
	})
}

func (s *RecordService) Withdraw(ctx context.Context, id, userID string) (*entities.Record, error) {
	now := s.clock.Now()
	return s.transition(ctx, "withdraw", id, entities.StatusPending, func(r *entities.Record) error {
		if !lifecycle.CanManage(r, userID) {
			return domain.ErrNotAuthor
		}
		return lifecycle.Withdraw(r, now)
	})
}

// SubmitRating stores userID's rating. Resubmitting the current value returns
// domain.ErrRatingUnchanged without writing.
func (s *RecordService) SubmitRating(ctx context.Context, id, userID string, rating int) (*entities.Record, error) {
	now := s.clock.Now()
	return s.transition(ctx, "rate", id, entities.StatusPending, func(r *entities.Record) error {
		return lifecycle.Rate(r, userID, rating, now)
	})
}

// transition applies mutate under a compare-and-set on expected and returns
// the committed record.
func (s *RecordService) transition(ctx context.Context, action, id string, expected entities.Status, mutate output.Mutation) (*entities.Record, error) {
	var committed *entities.Record
	ok, err := s.records.CompareAndSet(ctx, id, expected, func(r *entities.Record) error {
		if err := mutate(r); err != nil {
			return err
		}
		committed = r.Clone()
		return nil
	})
	if err == nil && !ok {
		err = s.explainMiss(ctx, id, expected, action)
	}
	s.observe(action, err)
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// explainMiss tells an illegal transition apart from a lost race after a failed compare-and-set.
func (s *RecordService) explainMiss(ctx context.Context, id string, expected entities.Status, action string) error {
	current, err := s.records.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != expected {
		return fmt.Errorf("%w: cannot %s a %s record", domain.ErrIllegalTransition, action, current.Status)
	}
	return domain.ErrConcurrentModification
}

func (s *RecordService) observe(action string, err error) {
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConcurrentModification):
		status = "conflict"
		logger.Debug("record action lost a race", zap.String("action", action))
	case domain.Code(err) != "" && !errors.Is(err, domain.ErrStoreUnavailable):
		status = "rejected"
	default:
		status = "error"
		logger.Error("record action failed", zap.String("action", action), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(action, status).Inc()
	}
}
