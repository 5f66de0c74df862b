package permissions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cyphera/wallet-rpc/internal/helpers"
)

// WalletEip155Scope covers EVM accounts without a specific chain.
const WalletEip155Scope = "wallet:eip155"

// ScopeObject lists the CAIP-10 accounts authorized within a scope.
type ScopeObject struct {
	Accounts []string `json:"accounts"`
}

// Caip25Permission is the unified chain and account grant for an origin.
// Values are never mutated after issue; changes produce a new permission.
type Caip25Permission struct {
	RequiredScopes     map[string]ScopeObject `json:"requiredScopes"`
	OptionalScopes     map[string]ScopeObject `json:"optionalScopes"`
	IsMultichainOrigin bool                   `json:"isMultichainOrigin"`
}

// LegacyGrant is the pre-CAIP-25 eth_accounts plus permitted-chains shape.
type LegacyGrant struct {
	Accounts []string `json:"accounts"`
	// ChainIDs are hex encoded, e.g. "0x1".
	ChainIDs []string `json:"chainIds"`
}

// FromLegacy converts a legacy grant. A nil grant yields an empty EVM request.
func FromLegacy(grant *LegacyGrant) (*Caip25Permission, error) {
	perm := &Caip25Permission{
		RequiredScopes: map[string]ScopeObject{},
		OptionalScopes: map[string]ScopeObject{},
	}
	if grant == nil || len(grant.ChainIDs) == 0 {
		var accounts []string
		if grant != nil {
			accounts = grant.Accounts
		}
		perm.OptionalScopes[WalletEip155Scope] = ScopeObject{Accounts: caip10(WalletEip155Scope, accounts)}
		return perm, nil
	}

	for _, chainID := range grant.ChainIDs {
		scope, err := eip155Scope(chainID)
		if err != nil {
			return nil, err
		}
		perm.OptionalScopes[scope] = ScopeObject{Accounts: caip10(scope, grant.Accounts)}
	}
	return perm, nil
}

func eip155Scope(hexChainID string) (string, error) {
	id, err := hexutil.DecodeUint64(hexChainID)
	if err != nil {
		return "", fmt.Errorf("invalid chain id %q: %w", hexChainID, err)
	}
	return fmt.Sprintf("eip155:%d", id), nil
}

func caip10(scope string, addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		out = append(out, scope+":"+helpers.NormalizeAddress(addr))
	}
	return out
}

func isEip155Scope(scope string) bool {
	return scope == WalletEip155Scope || strings.HasPrefix(scope, "eip155:")
}

// EthAccounts returns the unique EVM addresses authorized by the permission,
// sorted lexically. Recency ordering is applied by Controller.GetAccounts.
func (p *Caip25Permission) EthAccounts() []string {
	if p == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, scopes := range []map[string]ScopeObject{p.RequiredScopes, p.OptionalScopes} {
		for scope, obj := range scopes {
			if !isEip155Scope(scope) {
				continue
			}
			for _, acct := range obj.Accounts {
				idx := strings.LastIndex(acct, ":")
				addr := helpers.NormalizeAddress(acct[idx+1:])
				if _, ok := seen[addr]; ok {
					continue
				}
				seen[addr] = struct{}{}
				out = append(out, addr)
			}
		}
	}
	sort.Strings(out)
	return out
}

// WithAccounts returns a copy whose EVM scopes authorize exactly accounts.
func (p *Caip25Permission) WithAccounts(accounts []string) *Caip25Permission {
	next := &Caip25Permission{
		RequiredScopes:     map[string]ScopeObject{},
		OptionalScopes:     map[string]ScopeObject{},
		IsMultichainOrigin: p.IsMultichainOrigin,
	}
	copyScopes := func(dst, src map[string]ScopeObject) {
		for scope, obj := range src {
			if isEip155Scope(scope) {
				dst[scope] = ScopeObject{Accounts: caip10(scope, accounts)}
				continue
			}
			dst[scope] = ScopeObject{Accounts: append([]string(nil), obj.Accounts...)}
		}
	}
	copyScopes(next.RequiredScopes, p.RequiredScopes)
	copyScopes(next.OptionalScopes, p.OptionalScopes)
	if len(next.RequiredScopes)+len(next.OptionalScopes) == 0 {
		next.OptionalScopes[WalletEip155Scope] = ScopeObject{Accounts: caip10(WalletEip155Scope, accounts)}
	}
	return next
}
