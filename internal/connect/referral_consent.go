package connect

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/logger"
)

// requestReferralConsent asks the partner referral question once per
// address. Every failure is logged and swallowed.
func (h *Handler) requestReferralConsent(ctx context.Context, origin, address string) {
	log := logger.ForOrigin(h.logger, origin, zap.String("address", address))

	status, err := h.deps.Referrals.Status(ctx, address)
	if err != nil {
		log.Warn("Failed to read referral status", zap.Error(err))
		return
	}
	if status.Recorded() {
		log.Debug("Referral consent already recorded", zap.String("status", string(status)))
		return
	}

	result, err := h.deps.Consent.RequestApproval(ctx, approvals.Request{
		Origin: origin,
		Type:   h.opts.ConsentType,
		RequestData: map[string]interface{}{
			"selectedAddress": address,
		},
	})
	if err != nil {
		log.Info("Referral consent dialog cancelled", zap.Error(err))
		return
	}

	if result != nil && result.Approved {
		err = h.deps.Referrals.RecordApproved(ctx, address)
	} else {
		err = h.deps.Referrals.RecordDeclined(ctx, address)
	}
	if err != nil {
		log.Warn("Failed to record referral consent", zap.Error(err))
	}
}
