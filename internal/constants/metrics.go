package constants

// Metrics event names and categories
const (
	EventDappViewed          = "Dapp Viewed"
	CategoryInpageProvider   = "inpage_provider"
	PropIsFirstVisit         = "is_first_visit"
	PropNumberOfAccounts     = "number_of_accounts"
	PropNumberOfAccountsConn = "number_of_accounts_connected"
)
