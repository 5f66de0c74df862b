package rpc

import (
	"context"
	"encoding/json"

	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/permissions"
)

// AccountsRequester serves eth_requestAccounts.
type AccountsRequester interface {
	RequestAccounts(ctx context.Context, origin string) ([]string, error)
}

// PermissionReader reads the current grant for an origin.
type PermissionReader interface {
	GetAccounts(ctx context.Context, origin string) ([]string, error)
	GetPermission(ctx context.Context, origin string) (*permissions.Caip25Permission, error)
}

// LockState reports whether the wallet is unlocked.
type LockState interface {
	IsUnlocked() bool
}

// Caveat restricts a permission.
type Caveat struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// PermissionDescriptor is one entry of the wallet_getPermissions result.
type PermissionDescriptor struct {
	Invoker          string   `json:"invoker"`
	ParentCapability string   `json:"parentCapability"`
	Caveats          []Caveat `json:"caveats"`
}

const (
	capabilityCaip25       = "endowment:caip25"
	caveatAuthorizedScopes = "authorizedScopes"
)

// RegisterWalletMethods adds the account methods to e.
func RegisterWalletMethods(e *Engine, connect AccountsRequester, perms PermissionReader, lock LockState) {
	e.Register(constants.MethodRequestAccounts, func(ctx context.Context, origin string, _ json.RawMessage) (interface{}, error) {
		return connect.RequestAccounts(ctx, origin)
	})

	e.Register(constants.MethodAccounts, func(ctx context.Context, origin string, _ json.RawMessage) (interface{}, error) {
		if !lock.IsUnlocked() {
			return []string{}, nil
		}
		return perms.GetAccounts(ctx, origin)
	})

	e.Register(constants.MethodGetPermissions, func(ctx context.Context, origin string, _ json.RawMessage) (interface{}, error) {
		perm, err := perms.GetPermission(ctx, origin)
		if err != nil {
			return nil, err
		}
		if perm == nil {
			return []PermissionDescriptor{}, nil
		}
		return []PermissionDescriptor{{
			Invoker:          origin,
			ParentCapability: capabilityCaip25,
			Caveats:          []Caveat{{Type: caveatAuthorizedScopes, Value: perm}},
		}}, nil
	})
}
