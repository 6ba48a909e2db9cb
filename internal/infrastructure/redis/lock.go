package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("lock is held by another process")
	ErrLockNotOwned    = errors.New("lock is not owned by this holder")
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// LockManager hands out TTL-bound locks keyed by name. It satisfies output.Locker.
type LockManager struct {
	client *redis.Client
	prefix string
}

func NewLockManager(client *redis.Client, prefix string) *LockManager {
	return &LockManager{client: client, prefix: prefix}
}

// Acquire sets the key only when absent. The returned release deletes the key
// only while this holder still owns it.
func (m *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lockKey := fmt.Sprintf("%slock:%s", m.prefix, key)
	value := uuid.NewString()

	ok, err := m.client.SetNX(ctx, lockKey, value, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", lockKey, err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return func(ctx context.Context) error {
		n, err := m.client.Eval(ctx, releaseScript, []string{lockKey}, value).Int()
		if err != nil {
			return fmt.Errorf("release %s: %w", lockKey, err)
		}
		if n == 0 {
			return ErrLockNotOwned
		}
		return nil
	}, nil
}
