package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/infrastructure/memory"
)

func TestReminderSweep_RemindsOwnersOfUncompletedRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordRepository()
	future := baseTime.Add(time.Hour)

	request := pendingRecord("request", 1, 4, future, 3)
	request.IsRequest = true
	request.Creator = "bob"
	draft := pendingRecord("draft", 1, 4, future)
	draft.Status = entities.StatusNew

	seedRecords(t, store,
		pendingRecord("open", 1, 4, future, 5, 5),
		pendingRecord("full", 1, 2, future, 5, 5),
		request,
		draft,
	)

	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, "group-1", "alice", entities.CommandEventRateReminder).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, "group-1", "bob", entities.CommandRequestRateReminder).Return(nil).Once()

	require.NoError(t, NewReminderSweep(store, dispatcher, newFakeClock()).Run(ctx))

	dispatcher.AssertExpectations(t)
}

func TestReminderSweep_IgnoresClosingDate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordRepository()
	seedRecords(t, store, pendingRecord("closed", 1, 4, baseTime.Add(-time.Hour), 5))

	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, "group-1", "alice", entities.CommandEventRateReminder).Return(nil).Once()

	require.NoError(t, NewReminderSweep(store, dispatcher, newFakeClock()).Run(ctx))

	dispatcher.AssertExpectations(t)
}

func TestReminderSweep_NeverWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordRepository()
	seedRecords(t, store, pendingRecord("open", 1, 4, baseTime.Add(time.Hour), 5))
	before, _ := store.FindByID(ctx, "open")

	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("down"))

	require.NoError(t, NewReminderSweep(store, dispatcher, newFakeClock()).Run(ctx))

	after, _ := store.FindByID(ctx, "open")
	assert.Equal(t, before, after)
}

func TestSweepNames(t *testing.T) {
	store := memory.NewRecordRepository()
	assert.Equal(t, "completion", NewCompletionSweep(store, new(MockDispatcher), newFakeClock()).Name())
	assert.Equal(t, "reminder", NewReminderSweep(store, new(MockDispatcher), newFakeClock()).Name())
}
