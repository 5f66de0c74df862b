package wallet

import (
	"context"
	"fmt"
	"time"
)

// Preferences are the wallet-level settings relevant to dapp connections.
type Preferences struct {
	MetaMetricsID            string
	ParticipateInMetaMetrics bool
}

// HistoryReader exposes the per-origin permission history.
type HistoryReader interface {
	PermissionHistory(ctx context.Context) (map[string]time.Time, error)
}

// Snapshot is a point-in-time view of the wallet state.
type Snapshot struct {
	// MetaMetricsID is empty when the user has not opted into metrics.
	MetaMetricsID     string
	AccountCount      int
	PermissionHistory map[string]time.Time
}

// HasHistory reports whether origin was ever granted a permission.
func (s *Snapshot) HasHistory(origin string) bool {
	_, ok := s.PermissionHistory[origin]
	return ok
}

// Service composes wallet state for request handlers.
type Service struct {
	accounts AccountStore
	history  HistoryReader
	prefs    Preferences
}

func NewService(accounts AccountStore, history HistoryReader, prefs Preferences) *Service {
	return &Service{accounts: accounts, history: history, prefs: prefs}
}

// Snapshot reads the current account count and permission history.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	history, err := s.history.PermissionHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read permission history: %w", err)
	}

	snap := &Snapshot{
		AccountCount:      len(accounts),
		PermissionHistory: history,
	}
	if s.prefs.ParticipateInMetaMetrics {
		snap.MetaMetricsID = s.prefs.MetaMetricsID
	}
	return snap, nil
}
