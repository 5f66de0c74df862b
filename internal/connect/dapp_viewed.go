package connect

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/metrics"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

func (h *Handler) emitDappViewed(ctx context.Context, origin string, snapshot *wallet.Snapshot, connected int) error {
	if snapshot == nil || !metrics.ShouldEmitDappViewedEvent(snapshot.MetaMetricsID) {
		return nil
	}

	event := metrics.Event{
		Event:    constants.EventDappViewed,
		Category: constants.CategoryInpageProvider,
		Referrer: &metrics.Referrer{URL: origin},
		Properties: map[string]interface{}{
			constants.PropIsFirstVisit:         !snapshot.HasHistory(origin),
			constants.PropNumberOfAccounts:     snapshot.AccountCount,
			constants.PropNumberOfAccountsConn: connected,
		},
	}

	err := h.deps.Metrics.Track(ctx, event, metrics.Options{ExcludeMetaMetricsID: true})
	if err == nil {
		return nil
	}
	if h.opts.FailOnMetricsError {
		return err
	}
	h.logger.Warn("Failed to track dapp viewed event",
		zap.String("origin", origin),
		zap.Error(err))
	return nil
}
