package constants

// RPC method names
const (
	MethodRequestAccounts       = "eth_requestAccounts"
	MethodAccounts              = "eth_accounts"
	MethodGetPermissions        = "wallet_getPermissions"
	MethodRequestPermissions    = "wallet_requestPermissions"
	JSONRPCVersion              = "2.0"
	ApprovalTypeReferralConsent = "hyperliquid_referral_consent"
)

// Partner origins
const (
	HyperliquidOrigin = "https://app.hyperliquid.xyz"
)
