package permissions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

const (
	addrA  = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addrB  = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	origin = "https://app.example.org"
)

type approverFunc func(ctx context.Context, req approvals.Request) (*approvals.Result, error)

func (f approverFunc) RequestApproval(ctx context.Context, req approvals.Request) (*approvals.Result, error) {
	return f(ctx, req)
}

func TestFromLegacy(t *testing.T) {
	t.Run("nil grant requests the wallet scope", func(t *testing.T) {
		perm, err := FromLegacy(nil)
		require.NoError(t, err)
		require.Contains(t, perm.OptionalScopes, WalletEip155Scope)
		assert.Empty(t, perm.OptionalScopes[WalletEip155Scope].Accounts)
		assert.Empty(t, perm.EthAccounts())
	})

	t.Run("chains become eip155 scopes", func(t *testing.T) {
		perm, err := FromLegacy(&LegacyGrant{
			Accounts: []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
			ChainIDs: []string{"0x1", "0x89"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"eip155:1:" + addrA}, perm.OptionalScopes["eip155:1"].Accounts)
		assert.Equal(t, []string{"eip155:137:" + addrA}, perm.OptionalScopes["eip155:137"].Accounts)
		assert.Equal(t, []string{addrA}, perm.EthAccounts())
	})

	t.Run("invalid chain id", func(t *testing.T) {
		_, err := FromLegacy(&LegacyGrant{ChainIDs: []string{"mainnet"}})
		assert.Error(t, err)
	})
}

func TestCaip25Permission_WithAccounts(t *testing.T) {
	perm, err := FromLegacy(&LegacyGrant{ChainIDs: []string{"0x1"}})
	require.NoError(t, err)

	granted := perm.WithAccounts([]string{addrA, addrB})
	assert.Empty(t, perm.OptionalScopes["eip155:1"].Accounts, "original permission is not mutated")
	assert.ElementsMatch(t, []string{addrA, addrB}, granted.EthAccounts())
}

func newController(t *testing.T, approver approvals.Approver) (*Controller, *MemoryRepository, *wallet.MemoryAccountStore) {
	t.Helper()
	repo := NewMemoryRepository()
	accounts := wallet.NewMemoryAccountStore(addrA, addrB)
	return NewController(repo, accounts, approver), repo, accounts
}

func TestController_GetAccounts(t *testing.T) {
	ctx := context.Background()
	c, repo, accounts := newController(t, nil)

	got, err := c.GetAccounts(ctx, origin)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	perm, err := FromLegacy(nil)
	require.NoError(t, err)
	require.NoError(t, repo.SavePermission(ctx, origin, perm.WithAccounts([]string{addrA, addrB})))

	now := time.Now()
	require.NoError(t, accounts.SelectAccount(ctx, addrA, now.Add(-time.Hour)))
	require.NoError(t, accounts.SelectAccount(ctx, addrB, now))

	got, err = c.GetAccounts(ctx, origin)
	require.NoError(t, err)
	assert.Equal(t, []string{addrB, addrA}, got)

	require.NoError(t, accounts.SelectAccount(ctx, addrA, now.Add(time.Minute)))
	got, err = c.GetAccounts(ctx, origin)
	require.NoError(t, err)
	assert.Equal(t, []string{addrA, addrB}, got)
}

func TestController_RequestPermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("approval persists permission and history", func(t *testing.T) {
		var seen approvals.Request
		c, repo, _ := newController(t, approverFunc(func(_ context.Context, req approvals.Request) (*approvals.Result, error) {
			seen = req
			value, _ := json.Marshal(Approval{Accounts: []string{addrB}})
			return &approvals.Result{Approved: true, Value: value}, nil
		}))

		perm, err := c.PermissionFromLegacy(ctx, origin)
		require.NoError(t, err)
		require.NoError(t, c.RequestPermissions(ctx, origin, perm))

		assert.Equal(t, origin, seen.Origin)
		assert.Equal(t, "wallet_requestPermissions", seen.Type)

		stored, err := repo.GetPermission(ctx, origin)
		require.NoError(t, err)
		assert.Equal(t, []string{addrB}, stored.EthAccounts())

		history, err := c.PermissionHistory(ctx)
		require.NoError(t, err)
		assert.Contains(t, history, origin)
	})

	t.Run("rejection leaves no state", func(t *testing.T) {
		c, repo, _ := newController(t, approverFunc(func(context.Context, approvals.Request) (*approvals.Result, error) {
			return nil, rpcerrors.UserRejectedRequest()
		}))

		perm, err := c.PermissionFromLegacy(ctx, origin)
		require.NoError(t, err)
		err = c.RequestPermissions(ctx, origin, perm)
		assert.True(t, rpcerrors.IsCode(err, rpcerrors.CodeUserRejectedRequest))

		stored, err := repo.GetPermission(ctx, origin)
		require.NoError(t, err)
		assert.Nil(t, stored)
		history, err := repo.PermissionHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("resolved without approval is a rejection", func(t *testing.T) {
		c, _, _ := newController(t, approverFunc(func(context.Context, approvals.Request) (*approvals.Result, error) {
			return &approvals.Result{Approved: false}, nil
		}))
		perm, _ := FromLegacy(nil)
		err := c.RequestPermissions(ctx, origin, perm)
		assert.True(t, rpcerrors.IsCode(err, rpcerrors.CodeUserRejectedRequest))
	})

	t.Run("approval without accounts is invalid", func(t *testing.T) {
		c, _, _ := newController(t, approverFunc(func(context.Context, approvals.Request) (*approvals.Result, error) {
			return &approvals.Result{Approved: true}, nil
		}))
		perm, _ := FromLegacy(nil)
		err := c.RequestPermissions(ctx, origin, perm)
		assert.True(t, rpcerrors.IsCode(err, rpcerrors.CodeInvalidParams))
	})

	t.Run("approver failure is surfaced verbatim", func(t *testing.T) {
		boom := errors.New("approval queue closed")
		c, _, _ := newController(t, approverFunc(func(context.Context, approvals.Request) (*approvals.Result, error) {
			return nil, boom
		}))
		perm, _ := FromLegacy(nil)
		assert.Equal(t, boom, c.RequestPermissions(ctx, origin, perm))
	})
}
