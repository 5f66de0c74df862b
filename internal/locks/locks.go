// Package locks arbitrates concurrent requests per origin.
//
// A lock is best-effort mutual exclusion, not a queue: a second acquisition
// for an origin that is already held fails immediately.
package locks

import (
	"context"
	"sync"
)

// Release frees an acquired origin. Calling it more than once is a no-op.
type Release func()

// Locker grants at most one holder per origin.
type Locker interface {
	// TryAcquire returns acquired=false without blocking when origin is held.
	TryAcquire(ctx context.Context, origin string) (release Release, acquired bool, err error)
}

// OriginLocks is the in-process origin lock set owned by a handler instance.
type OriginLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewOriginLocks creates an empty lock set.
func NewOriginLocks() *OriginLocks {
	return &OriginLocks{held: make(map[string]struct{})}
}

// TryAcquire checks and claims origin in a single critical section.
func (l *OriginLocks) TryAcquire(_ context.Context, origin string) (Release, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[origin]; ok {
		return nil, false, nil
	}
	l.held[origin] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, origin)
			l.mu.Unlock()
		})
	}, true, nil
}

// IsLocked reports whether origin currently has an in-flight request.
func (l *OriginLocks) IsLocked(origin string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[origin]
	return ok
}

// Len returns the number of held origins.
func (l *OriginLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
