package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/helpers"
	"github.com/cyphera/wallet-rpc/internal/referrals"
)

// ReferralStore is the referral ledger as seen by the wallet UI.
type ReferralStore interface {
	Status(ctx context.Context, address string) (referrals.Status, error)
	RecordPassed(ctx context.Context, address string) error
	ApproveAll(ctx context.Context, addresses []string) error
	List(ctx context.Context) ([]referrals.Entry, error)
}

// ReferralHandler exposes the partner referral ledger.
type ReferralHandler struct {
	ledger ReferralStore
}

func NewReferralHandler(ledger ReferralStore) *ReferralHandler {
	return &ReferralHandler{ledger: ledger}
}

// ReferralStatusResponse is the recorded decision for one address. An empty
// status means no decision has been recorded.
type ReferralStatusResponse struct {
	Address string           `json:"address"`
	Status  referrals.Status `json:"status"`
}

// ApproveAllRequest approves several addresses at once.
type ApproveAllRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1"`
}

func (h *ReferralHandler) ListReferrals(c *gin.Context) {
	entries, err := h.ledger.List(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to list referral decisions", err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": entries})
}

func (h *ReferralHandler) GetReferral(c *gin.Context) {
	address := c.Param("address")
	if !helpers.IsAddressValid(address) {
		sendError(c, http.StatusBadRequest, "Invalid address", nil)
		return
	}
	status, err := h.ledger.Status(c.Request.Context(), address)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to read referral status", err)
		return
	}
	sendSuccess(c, http.StatusOK, ReferralStatusResponse{
		Address: helpers.NormalizeAddress(address),
		Status:  status,
	})
}

// MarkPassed records that the user skipped the consent prompt for address.
func (h *ReferralHandler) MarkPassed(c *gin.Context) {
	address := c.Param("address")
	if !helpers.IsAddressValid(address) {
		sendError(c, http.StatusBadRequest, "Invalid address", nil)
		return
	}
	if err := h.ledger.RecordPassed(c.Request.Context(), address); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to record referral decision", err)
		return
	}
	sendSuccess(c, http.StatusOK, ReferralStatusResponse{
		Address: helpers.NormalizeAddress(address),
		Status:  referrals.StatusPassed,
	})
}

func (h *ReferralHandler) ApproveAll(c *gin.Context) {
	var req ApproveAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	for _, addr := range req.Addresses {
		if !helpers.IsAddressValid(addr) {
			sendError(c, http.StatusBadRequest, "Invalid address: "+addr, nil)
			return
		}
	}
	if err := h.ledger.ApproveAll(c.Request.Context(), req.Addresses); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to record referral decisions", err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Referrals approved"})
}
