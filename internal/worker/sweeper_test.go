package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSweep is a mock of input.Sweep.
type MockSweep struct {
	mock.Mock
}

func (m *MockSweep) Name() string { return "mock" }

func (m *MockSweep) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type stubLocker struct {
	err      error
	acquired atomic.Int32
	released atomic.Int32
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired.Add(1)
	return func(context.Context) error {
		l.released.Add(1)
		return nil
	}, nil
}

func TestNewSweeper(t *testing.T) {
	s := NewSweeper(new(MockSweep), time.Minute, nil)

	assert.Equal(t, time.Minute, s.interval)
	assert.NotNil(t, s.stopCh)
	assert.NotNil(t, s.doneCh)
}

func TestSweeper_RunOnce(t *testing.T) {
	t.Run("pass runs under a deadline", func(t *testing.T) {
		sweep := new(MockSweep)
		sweep.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})).Return(nil).Once()

		NewSweeper(sweep, time.Minute, nil).runOnce(context.Background(), zapNop())

		sweep.AssertExpectations(t)
	})

	t.Run("errors do not panic", func(t *testing.T) {
		sweep := new(MockSweep)
		sweep.On("Run", mock.Anything).Return(errors.New("store down")).Once()

		assert.NotPanics(t, func() {
			NewSweeper(sweep, time.Minute, nil).runOnce(context.Background(), zapNop())
		})
		sweep.AssertExpectations(t)
	})

	t.Run("lock is taken and released", func(t *testing.T) {
		sweep := new(MockSweep)
		sweep.On("Run", mock.Anything).Return(nil).Once()
		locker := &stubLocker{}

		NewSweeper(sweep, time.Minute, locker).runOnce(context.Background(), zapNop())

		assert.EqualValues(t, 1, locker.acquired.Load())
		assert.EqualValues(t, 1, locker.released.Load())
	})

	t.Run("held lock skips the pass", func(t *testing.T) {
		sweep := new(MockSweep)
		locker := &stubLocker{err: errors.New("held")}

		NewSweeper(sweep, time.Minute, locker).runOnce(context.Background(), zapNop())

		sweep.AssertNotCalled(t, "Run", mock.Anything)
	})
}

func TestSweeper_StartStop(t *testing.T) {
	t.Run("ticks until stopped", func(t *testing.T) {
		var calls atomic.Int32
		sweep := new(MockSweep)
		sweep.On("Run", mock.Anything).Return(nil).Run(func(mock.Arguments) { calls.Add(1) })

		s := NewSweeper(sweep, 20*time.Millisecond, nil)
		go s.Start(context.Background())

		require.Eventually(t, func() bool {
			return calls.Load() > 0
		}, time.Second, 10*time.Millisecond)

		s.Stop()

		select {
		case <-s.doneCh:
		case <-time.After(time.Second):
			t.Error("sweeper did not stop in time")
		}
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		sweep := new(MockSweep)
		sweep.On("Run", mock.Anything).Return(nil).Maybe()

		s := NewSweeper(sweep, 20*time.Millisecond, nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("sweeper did not stop after context cancel")
		}
	})
}
