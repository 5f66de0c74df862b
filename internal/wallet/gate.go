package wallet

import (
	"context"
	"sync"
)

// Gate tracks the wallet lock state. Waiters are released together on Unlock.
type Gate struct {
	mu       sync.Mutex
	unlocked bool
	ready    chan struct{}
}

// NewGate returns a gate in the locked state.
func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// AwaitUnlock blocks until the wallet is unlocked or ctx is done.
func (g *Gate) AwaitUnlock(ctx context.Context) error {
	g.mu.Lock()
	if g.unlocked {
		g.mu.Unlock()
		return nil
	}
	ready := g.ready
	g.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock opens the gate and wakes every waiter.
func (g *Gate) Unlock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unlocked {
		return
	}
	g.unlocked = true
	close(g.ready)
}

// Lock closes the gate; later AwaitUnlock calls block again.
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.unlocked {
		return
	}
	g.unlocked = false
	g.ready = make(chan struct{})
}

func (g *Gate) IsUnlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}
