package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// ConnectMocks bundles the collaborator mocks of a connect.Handler.
type ConnectMocks struct {
	Accounts    *MockAccountSource
	Unlock      *MockUnlockGate
	Permissions *MockPermissionRequester
	State       *MockStateReader
	Metrics     *MockMetricsSink
	Consent     *MockConsentPrompter
	Referrals   *MockReferralLedger
}

// NewConnectMocksForTest creates the collaborator mocks on one controller.
func NewConnectMocksForTest(t *testing.T) *ConnectMocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &ConnectMocks{
		Accounts:    NewMockAccountSource(ctrl),
		Unlock:      NewMockUnlockGate(ctrl),
		Permissions: NewMockPermissionRequester(ctrl),
		State:       NewMockStateReader(ctrl),
		Metrics:     NewMockMetricsSink(ctrl),
		Consent:     NewMockConsentPrompter(ctrl),
		Referrals:   NewMockReferralLedger(ctrl),
	}
}
