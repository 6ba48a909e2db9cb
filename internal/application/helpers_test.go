package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/infrastructure/memory"
)

var baseTime = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: baseTime} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockDispatcher is a mock of output.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, groupID, userID string, code entities.CommandCode) error {
	args := m.Called(ctx, groupID, userID, code)
	return args.Error(0)
}

func pendingRecord(id string, minCount, maxCount int, closing time.Time, ratings ...int) entities.Record {
	r := entities.Record{
		ID:                   id,
		GroupID:              "group-1",
		Author:               "alice",
		Creator:              "alice",
		Status:               entities.StatusPending,
		ParticipantsMinCount: minCount,
		ParticipantsMaxCount: maxCount,
		ClosingDate:          closing,
		Participants:         []entities.Participant{},
		CreatedAt:            baseTime,
	}
	for i, rating := range ratings {
		r.Participants = append(r.Participants, entities.Participant{UserID: string(rune('b' + i)), Rating: rating})
	}
	return r
}

func seedRecords(t *testing.T, store *memory.RecordRepository, records ...entities.Record) {
	t.Helper()
	for i := range records {
		require.NoError(t, store.Create(context.Background(), &records[i]))
	}
}
