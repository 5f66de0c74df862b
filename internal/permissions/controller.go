// Package permissions resolves which accounts an origin may see and
// issues new grants after user approval.
package permissions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/helpers"
	"github.com/cyphera/wallet-rpc/internal/logger"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

// AccountLister lists the wallet's accounts with their selection recency.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]wallet.Account, error)
}

// Approval is the value a UI returns when approving a permission request.
type Approval struct {
	Accounts []string `json:"accounts"`
}

// Controller fronts the permission repository.
type Controller struct {
	repo     Repository
	accounts AccountLister
	approver approvals.Approver
	logger   *zap.Logger
	now      func() time.Time
}

func NewController(repo Repository, accounts AccountLister, approver approvals.Approver) *Controller {
	return &Controller{
		repo:     repo,
		accounts: accounts,
		approver: approver,
		logger:   logger.Log,
		now:      time.Now,
	}
}

// GetAccounts returns the addresses origin may access, most recently
// selected first. An origin without a grant gets an empty list.
func (c *Controller) GetAccounts(ctx context.Context, origin string) ([]string, error) {
	perm, err := c.repo.GetPermission(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission for %s: %w", origin, err)
	}
	permitted := perm.EthAccounts()
	if len(permitted) == 0 {
		return []string{}, nil
	}

	known, err := c.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	lastSelected := make(map[string]time.Time, len(known))
	for _, acct := range known {
		lastSelected[helpers.NormalizeAddress(acct.Address)] = acct.LastSelected
	}

	ordered := make([]wallet.Account, 0, len(permitted))
	for _, addr := range permitted {
		ordered = append(ordered, wallet.Account{Address: addr, LastSelected: lastSelected[addr]})
	}
	wallet.SortByLastSelected(ordered)

	out := make([]string, len(ordered))
	for i, acct := range ordered {
		out[i] = acct.Address
	}
	return out, nil
}

// GetPermission returns the current grant for origin, or nil.
func (c *Controller) GetPermission(ctx context.Context, origin string) (*Caip25Permission, error) {
	return c.repo.GetPermission(ctx, origin)
}

// PermissionFromLegacy builds a CAIP-25 permission from origin's legacy grant.
func (c *Controller) PermissionFromLegacy(ctx context.Context, origin string) (*Caip25Permission, error) {
	grant, err := c.repo.GetLegacyGrant(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy grant for %s: %w", origin, err)
	}
	return FromLegacy(grant)
}

// RequestPermissions asks the user to approve perm for origin. Nothing is
// persisted unless the user approves at least one account.
func (c *Controller) RequestPermissions(ctx context.Context, origin string, perm *Caip25Permission) error {
	result, err := c.approver.RequestApproval(ctx, approvals.Request{
		Origin: origin,
		Type:   constants.MethodRequestPermissions,
		RequestData: map[string]interface{}{
			"permissions": perm,
		},
	})
	if err != nil {
		return err
	}
	if result == nil || !result.Approved {
		return rpcerrors.UserRejectedRequest()
	}

	var approval Approval
	if len(result.Value) > 0 {
		if err := json.Unmarshal(result.Value, &approval); err != nil {
			return rpcerrors.InvalidParams(fmt.Sprintf("invalid permission approval: %v", err))
		}
	}
	accounts := approval.Accounts
	if len(accounts) == 0 {
		accounts = perm.EthAccounts()
	}
	if len(accounts) == 0 {
		return rpcerrors.InvalidParams("permission approval must include at least one account")
	}

	granted := perm.WithAccounts(accounts)
	if err := c.repo.SavePermission(ctx, origin, granted); err != nil {
		return fmt.Errorf("failed to save permission for %s: %w", origin, err)
	}
	if err := c.repo.RecordHistory(ctx, origin, granted.EthAccounts(), c.now()); err != nil {
		return fmt.Errorf("failed to record permission history for %s: %w", origin, err)
	}

	c.logger.Info("Permission granted",
		zap.String("origin", origin),
		zap.Int("accounts", len(accounts)))
	return nil
}

// PermissionHistory exposes the repository history for wallet snapshots.
func (c *Controller) PermissionHistory(ctx context.Context) (map[string]time.Time, error) {
	return c.repo.PermissionHistory(ctx)
}
