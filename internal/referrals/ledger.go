// Package referrals records per-address partner referral consent.
package referrals

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cyphera/wallet-rpc/internal/helpers"
)

// Status is the consent decision recorded for an address.
type Status string

const (
	StatusNone     Status = ""
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusPassed   Status = "passed"
)

// Valid reports whether s is a recordable status.
func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusPassed:
		return true
	}
	return false
}

// Recorded reports whether a decision exists. Records never expire.
func (s Status) Recorded() bool {
	return s != StatusNone
}

// ParseStatus converts a stored or user supplied value.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return StatusNone, fmt.Errorf("invalid referral status %q", s)
	}
	return st, nil
}

// Entry is a recorded decision.
type Entry struct {
	Address string `json:"address" yaml:"address"`
	Status  Status `json:"status" yaml:"status"`
}

// Store is the persistence behind a Ledger.
type Store interface {
	Get(ctx context.Context, address string) (Status, error)
	Put(ctx context.Context, address string, status Status) error
	List(ctx context.Context) ([]Entry, error)
}

// Ledger normalizes addresses and exposes the referral operations.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) Status(ctx context.Context, address string) (Status, error) {
	return l.store.Get(ctx, helpers.NormalizeAddress(address))
}

func (l *Ledger) RecordApproved(ctx context.Context, address string) error {
	return l.record(ctx, address, StatusApproved)
}

func (l *Ledger) RecordDeclined(ctx context.Context, address string) error {
	return l.record(ctx, address, StatusDeclined)
}

func (l *Ledger) RecordPassed(ctx context.Context, address string) error {
	return l.record(ctx, address, StatusPassed)
}

// ApproveAll marks every address as approved.
func (l *Ledger) ApproveAll(ctx context.Context, addresses []string) error {
	for _, addr := range addresses {
		if err := l.RecordApproved(ctx, addr); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) List(ctx context.Context) ([]Entry, error) {
	return l.store.List(ctx)
}

func (l *Ledger) record(ctx context.Context, address string, status Status) error {
	if address == "" {
		return fmt.Errorf("address is required")
	}
	if err := l.store.Put(ctx, helpers.NormalizeAddress(address), status); err != nil {
		return fmt.Errorf("failed to record %s referral for %s: %w", status, address, err)
	}
	return nil
}

// MemoryStore keeps decisions in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Status{}}
}

func (s *MemoryStore) Get(_ context.Context, address string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[address], nil
}

func (s *MemoryStore) Put(_ context.Context, address string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[address] = status
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedEntries(s.entries), nil
}

func sortedEntries(m map[string]Status) []Entry {
	out := make([]Entry, 0, len(m))
	for addr, st := range m {
		out = append(out, Entry{Address: addr, Status: st})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
