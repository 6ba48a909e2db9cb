package output

import (
	"context"
	"time"
)

// Locker grants exclusive, expiring ownership of a key across processes.
type Locker interface {
	// Acquire returns a release func, or an error when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
