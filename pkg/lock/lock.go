// Package lock serializes corpus analysis runs across goroutines and processes.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrLocked is returned when another holder owns the key.
var ErrLocked = errors.New("lock: already held")

// Release gives the lock back. Releasing an expired or stolen lock is not an error.
type Release func(ctx context.Context) error

// Locker hands out non-blocking, expiring locks keyed by name.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}
