package wallet

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cyphera/wallet-rpc/internal/helpers"
)

// ErrAccountNotFound is returned when selecting an unknown account.
var ErrAccountNotFound = errors.New("account not found")

// Account is an address managed by the wallet.
type Account struct {
	Address      string    `json:"address"`
	LastSelected time.Time `json:"last_selected"`
}

// AccountStore persists the wallet's known accounts.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	AddAccount(ctx context.Context, address string) error
	SelectAccount(ctx context.Context, address string, at time.Time) error
}

// SortByLastSelected orders accounts most recently selected first.
// Ties keep their relative order.
func SortByLastSelected(accounts []Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].LastSelected.After(accounts[j].LastSelected)
	})
}

// MemoryAccountStore keeps accounts in process memory.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts []Account
}

func NewMemoryAccountStore(addresses ...string) *MemoryAccountStore {
	s := &MemoryAccountStore{}
	for _, addr := range addresses {
		s.accounts = append(s.accounts, Account{Address: helpers.NormalizeAddress(addr)})
	}
	return s
}

func (s *MemoryAccountStore) ListAccounts(_ context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *MemoryAccountStore) AddAccount(_ context.Context, address string) error {
	address = helpers.NormalizeAddress(address)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Address == address {
			return nil
		}
	}
	s.accounts = append(s.accounts, Account{Address: address})
	return nil
}

func (s *MemoryAccountStore) SelectAccount(_ context.Context, address string, at time.Time) error {
	address = helpers.NormalizeAddress(address)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].Address == address {
			s.accounts[i].LastSelected = at
			return nil
		}
	}
	return ErrAccountNotFound
}
