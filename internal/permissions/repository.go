package permissions

import (
	"context"
	"sync"
	"time"
)

// Repository persists permissions and their history per origin.
type Repository interface {
	// GetPermission returns nil when origin holds no permission.
	GetPermission(ctx context.Context, origin string) (*Caip25Permission, error)
	// SavePermission replaces the permission for origin wholesale.
	SavePermission(ctx context.Context, origin string, perm *Caip25Permission) error
	// GetLegacyGrant returns nil when origin has no legacy grant.
	GetLegacyGrant(ctx context.Context, origin string) (*LegacyGrant, error)
	RecordHistory(ctx context.Context, origin string, accounts []string, at time.Time) error
	PermissionHistory(ctx context.Context) (map[string]time.Time, error)
}

// MemoryRepository is a Repository for local runs and tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	permissions map[string]*Caip25Permission
	legacy      map[string]*LegacyGrant
	history     map[string]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		permissions: map[string]*Caip25Permission{},
		legacy:      map[string]*LegacyGrant{},
		history:     map[string]time.Time{},
	}
}

func (r *MemoryRepository) GetPermission(_ context.Context, origin string) (*Caip25Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.permissions[origin], nil
}

func (r *MemoryRepository) SavePermission(_ context.Context, origin string, perm *Caip25Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissions[origin] = perm
	return nil
}

func (r *MemoryRepository) GetLegacyGrant(_ context.Context, origin string) (*LegacyGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.legacy[origin], nil
}

// SetLegacyGrant seeds a legacy grant for origin.
func (r *MemoryRepository) SetLegacyGrant(origin string, grant *LegacyGrant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy[origin] = grant
}

func (r *MemoryRepository) RecordHistory(_ context.Context, origin string, _ []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[origin] = at
	return nil
}

func (r *MemoryRepository) PermissionHistory(_ context.Context) (map[string]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]time.Time, len(r.history))
	for k, v := range r.history {
		out[k] = v
	}
	return out, nil
}
