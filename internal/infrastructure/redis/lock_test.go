package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *LockManager {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := NewClient(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewLockManager(client, "test:"+uuid.NewString()+":")
}

func TestLockManager_Acquire(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	t.Run("acquires a free key", func(t *testing.T) {
		release, err := manager.Acquire(ctx, "completion", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, release(ctx))
	})

	t.Run("second holder is refused", func(t *testing.T) {
		release, err := manager.Acquire(ctx, "reminder", 5*time.Second)
		require.NoError(t, err)
		defer release(ctx)

		_, err = manager.Acquire(ctx, "reminder", 5*time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	t.Run("released key can be taken again", func(t *testing.T) {
		release, err := manager.Acquire(ctx, "again", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, release(ctx))

		release, err = manager.Acquire(ctx, "again", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, release(ctx))
	})

	t.Run("expired lock is not released by its old holder", func(t *testing.T) {
		release, err := manager.Acquire(ctx, "expiring", 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(200 * time.Millisecond)

		other, err := manager.Acquire(ctx, "expiring", 5*time.Second)
		require.NoError(t, err)
		defer other(ctx)

		assert.ErrorIs(t, release(ctx), ErrLockNotOwned)
	})
}
