// Package connect implements eth_requestAccounts: it arbitrates concurrent
// requests per origin, returns existing grants or requests a new one, and
// runs the post-connection side effects (dapp-viewed metrics and partner
// referral consent).
package connect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/locks"
	"github.com/cyphera/wallet-rpc/internal/logger"
	"github.com/cyphera/wallet-rpc/internal/metrics"
	"github.com/cyphera/wallet-rpc/internal/permissions"
	"github.com/cyphera/wallet-rpc/internal/referrals"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

// AccountSource returns the accounts permitted for an origin, most recently
// selected first. It must not wait for the wallet to unlock.
type AccountSource interface {
	GetAccounts(ctx context.Context, origin string) ([]string, error)
}

// UnlockGate resolves once the wallet is unlocked.
type UnlockGate interface {
	AwaitUnlock(ctx context.Context) error
}

// PermissionRequester converts legacy grants and requests new permissions.
type PermissionRequester interface {
	PermissionFromLegacy(ctx context.Context, origin string) (*permissions.Caip25Permission, error)
	RequestPermissions(ctx context.Context, origin string, perm *permissions.Caip25Permission) error
}

// StateReader snapshots wallet state for the metrics gate.
type StateReader interface {
	Snapshot(ctx context.Context) (*wallet.Snapshot, error)
}

// ConsentPrompter shows a consent dialog and returns the user's decision.
type ConsentPrompter interface {
	RequestApproval(ctx context.Context, req approvals.Request) (*approvals.Result, error)
}

// ReferralLedger reads and records partner referral decisions.
type ReferralLedger interface {
	Status(ctx context.Context, address string) (referrals.Status, error)
	RecordApproved(ctx context.Context, address string) error
	RecordDeclined(ctx context.Context, address string) error
}

// Dependencies are the collaborators of a Handler.
type Dependencies struct {
	Accounts    AccountSource
	Unlock      UnlockGate
	Permissions PermissionRequester
	State       StateReader
	Metrics     metrics.Sink
	Consent     ConsentPrompter
	Referrals   ReferralLedger
	// Locks defaults to an in-process lock set.
	Locks locks.Locker
}

// Options configure product-level behaviour.
type Options struct {
	// PartnerOrigin receives the referral consent prompt after a new connection.
	PartnerOrigin string
	// ConsentType is the approval type of the referral consent dialog.
	ConsentType string
	// FailOnMetricsError propagates metrics sink failures to the caller.
	FailOnMetricsError bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		PartnerOrigin: constants.HyperliquidOrigin,
		ConsentType:   constants.ApprovalTypeReferralConsent,
	}
}

// Handler serves eth_requestAccounts.
type Handler struct {
	deps   Dependencies
	opts   Options
	logger *zap.Logger
}

// NewHandler validates deps and returns a Handler.
func NewHandler(deps Dependencies, opts Options) (*Handler, error) {
	switch {
	case deps.Accounts == nil:
		return nil, fmt.Errorf("account source is required")
	case deps.Unlock == nil:
		return nil, fmt.Errorf("unlock gate is required")
	case deps.Permissions == nil:
		return nil, fmt.Errorf("permission requester is required")
	case deps.State == nil:
		return nil, fmt.Errorf("state reader is required")
	case deps.Metrics == nil:
		return nil, fmt.Errorf("metrics sink is required")
	case deps.Consent == nil:
		return nil, fmt.Errorf("consent prompter is required")
	case deps.Referrals == nil:
		return nil, fmt.Errorf("referral ledger is required")
	}
	if deps.Locks == nil {
		deps.Locks = locks.NewOriginLocks()
	}
	if opts.ConsentType == "" {
		opts.ConsentType = constants.ApprovalTypeReferralConsent
	}

	return &Handler{deps: deps, opts: opts, logger: logger.Log}, nil
}

// RequestAccounts returns the accounts origin may access, requesting a new
// permission when it has none. Errors are RPC errors or collaborator errors
// passed through unmodified.
func (h *Handler) RequestAccounts(ctx context.Context, origin string) ([]string, error) {
	release, acquired, err := h.deps.Locks.TryAcquire(ctx, origin)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, rpcerrors.ResourceUnavailable(
			fmt.Sprintf("Already processing %s. Please wait.", constants.MethodRequestAccounts))
	}
	defer release()

	log := logger.ForOrigin(h.logger, origin)

	accounts, err := h.deps.Accounts.GetAccounts(ctx, origin)
	if err != nil {
		return nil, err
	}

	if len(accounts) > 0 {
		// Permission requests are only shown once the wallet is unlocked, so
		// only the existing-grant path waits here.
		if err := h.deps.Unlock.AwaitUnlock(ctx); err != nil {
			return nil, err
		}
		log.Debug("Returning existing accounts", zap.Int("accounts", len(accounts)))
		return accounts, nil
	}

	// Captured before the grant: the grant itself writes permission history.
	snapshot, err := h.deps.State.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	perm, err := h.deps.Permissions.PermissionFromLegacy(ctx, origin)
	if err != nil {
		return nil, err
	}
	if err := h.deps.Permissions.RequestPermissions(ctx, origin, perm); err != nil {
		log.Info("Permission request failed", zap.Error(err))
		return nil, err
	}

	// The granted permission does not carry last-selected order.
	accounts, err = h.deps.Accounts.GetAccounts(ctx, origin)
	if err != nil {
		return nil, err
	}

	if err := h.emitDappViewed(ctx, origin, snapshot, len(accounts)); err != nil {
		return nil, err
	}

	if origin == h.opts.PartnerOrigin && len(accounts) > 0 {
		h.requestReferralConsent(ctx, origin, accounts[0])
	}

	return accounts, nil
}
