// Package memory is an in-process record and group store. It backs tests and
// single-instance deployments without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/domain/quorum"
	"prostavabot/internal/ports/output"
)

var (
	_ output.RecordRepository = (*RecordRepository)(nil)
	_ output.GroupRepository  = (*GroupRepository)(nil)
)

// RecordRepository keeps records in a map guarded by a mutex. Stored values
// are cloned on the way in and out.
type RecordRepository struct {
	mu      sync.RWMutex
	records map[string]*entities.Record
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{records: make(map[string]*entities.Record)}
}

func (s *RecordRepository) Create(_ context.Context, record *entities.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return fmt.Errorf("create record %s: already exists", record.ID)
	}
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *RecordRepository) FindByID(_ context.Context, id string) (*entities.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return r.Clone(), nil
}

func (s *RecordRepository) FindByGroupID(_ context.Context, groupID string) ([]entities.Record, error) {
	return s.filter(func(r *entities.Record) bool { return r.GroupID == groupID }), nil
}

func (s *RecordRepository) FindPendingByAuthor(_ context.Context, groupID, author string) (*entities.Record, error) {
	found := s.filter(func(r *entities.Record) bool {
		return r.GroupID == groupID && r.Author == author && r.Status == entities.StatusPending
	})
	if len(found) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return &found[0], nil
}

func (s *RecordRepository) FindPendingCompleted(_ context.Context, now time.Time) ([]entities.Record, error) {
	return s.filter(func(r *entities.Record) bool {
		return r.Status == entities.StatusPending && quorum.IsNumericallyComplete(r, now)
	}), nil
}

func (s *RecordRepository) FindPendingUncompleted(_ context.Context) ([]entities.Record, error) {
	return s.filter(func(r *entities.Record) bool {
		return r.Status == entities.StatusPending && len(r.Participants) < r.ParticipantsMaxCount
	}), nil
}

func (s *RecordRepository) CompareAndSet(_ context.Context, id string, expected entities.Status, mutation output.Mutation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[id]
	if !ok {
		return false, domain.ErrRecordNotFound
	}
	if current.Status != expected {
		return false, nil
	}
	next := current.Clone()
	if err := mutation(next); err != nil {
		return false, err
	}
	if current.Status != entities.StatusPending && s.authorHasPending(next) {
		return false, domain.ErrPendingExists
	}
	next.Version = current.Version + 1
	next.UpdatedAt = time.Now()
	s.records[id] = next
	return true, nil
}

// authorHasPending reports whether next would become a second pending record
// of its author in its group. Callers hold s.mu.
func (s *RecordRepository) authorHasPending(next *entities.Record) bool {
	if next.Status != entities.StatusPending || next.Author == "" {
		return false
	}
	for id, r := range s.records {
		if id != next.ID && r.GroupID == next.GroupID && r.Author == next.Author && r.Status == entities.StatusPending {
			return true
		}
	}
	return false
}

func (s *RecordRepository) filter(keep func(r *entities.Record) bool) []entities.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Record, 0)
	for _, r := range s.records {
		if keep(r) {
			out = append(out, *r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type GroupRepository struct {
	mu     sync.RWMutex
	groups map[string]entities.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{groups: make(map[string]entities.Group)}
}

func (s *GroupRepository) FindByID(_ context.Context, id string) (*entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return &g, nil
}

func (s *GroupRepository) Save(_ context.Context, group *entities.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.ID] = *group
	return nil
}
