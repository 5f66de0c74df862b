// Package approvals routes requests that need a user decision.
package approvals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
)

var (
	ErrNotFound = errors.New("approval not found")
)

// Request describes a pending user decision.
type Request struct {
	ID          string                 `json:"id"`
	Origin      string                 `json:"origin"`
	Type        string                 `json:"type"`
	RequestData map[string]interface{} `json:"requestData,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Result is the user's answer.
type Result struct {
	Approved bool            `json:"approved"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// Approver asks the user to decide on a request.
type Approver interface {
	RequestApproval(ctx context.Context, req Request) (*Result, error)
}

type outcome struct {
	result *Result
	err    error
}

type pending struct {
	req  Request
	done chan outcome
}

// Manager holds pending approvals until a UI resolves or rejects them.
// Only one approval per origin and type may be pending at a time.
type Manager struct {
	mu      sync.Mutex
	pending map[string]*pending
	logger  *zap.Logger
	now     func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		pending: make(map[string]*pending),
		logger:  logger.Log,
		now:     time.Now,
	}
}

// RequestApproval registers req and blocks until it is resolved, rejected or ctx ends.
func (m *Manager) RequestApproval(ctx context.Context, req Request) (*Result, error) {
	p, err := m.add(req)
	if err != nil {
		return nil, err
	}

	m.logger.Info("Approval requested",
		zap.String("approval_id", p.req.ID),
		zap.String("origin", p.req.Origin),
		zap.String("type", p.req.Type))

	select {
	case out := <-p.done:
		return out.result, out.err
	case <-ctx.Done():
		m.remove(p.req.ID)
		return nil, ctx.Err()
	}
}

func (m *Manager) add(req Request) (*pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pending {
		if p.req.Origin == req.Origin && p.req.Type == req.Type {
			return nil, rpcerrors.ResourceUnavailable(
				fmt.Sprintf("Request of type '%s' already pending for origin %s. Please wait.", req.Type, req.Origin))
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if _, exists := m.pending[req.ID]; exists {
		return nil, fmt.Errorf("approval %s already exists", req.ID)
	}
	req.CreatedAt = m.now()

	p := &pending{req: req, done: make(chan outcome, 1)}
	m.pending[req.ID] = p
	return p, nil
}

func (m *Manager) remove(id string) *pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[id]
	if !ok {
		return nil
	}
	delete(m.pending, id)
	return p
}

// Resolve completes approval id with result.
func (m *Manager) Resolve(id string, result Result) error {
	p := m.remove(id)
	if p == nil {
		return ErrNotFound
	}
	p.done <- outcome{result: &result}
	m.logger.Info("Approval resolved", zap.String("approval_id", id), zap.Bool("approved", result.Approved))
	return nil
}

// Reject fails approval id. A nil err is reported as a user rejection.
func (m *Manager) Reject(id string, err error) error {
	p := m.remove(id)
	if p == nil {
		return ErrNotFound
	}
	if err == nil {
		err = rpcerrors.UserRejectedRequest()
	}
	p.done <- outcome{err: err}
	m.logger.Info("Approval rejected", zap.String("approval_id", id), zap.Error(err))
	return nil
}

// Get returns the pending approval id.
func (m *Manager) Get(id string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return p.req, nil
}

// List returns pending approvals, oldest first.
func (m *Manager) List() []Request {
	m.mu.Lock()
	out := make([]Request, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p.req)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
