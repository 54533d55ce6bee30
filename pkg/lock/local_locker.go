package lock

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	token     uint64
	expiresAt time.Time
}

// LocalLocker is the in-process fallback used when Redis is unreachable.
type LocalLocker struct {
	mu      sync.Mutex
	held    map[string]localEntry
	counter uint64
	now     func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]localEntry),
		now:  time.Now,
	}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return nil, ErrLocked
	}

	l.counter++
	token := l.counter
	l.held[key] = localEntry{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if entry, ok := l.held[key]; ok && entry.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
