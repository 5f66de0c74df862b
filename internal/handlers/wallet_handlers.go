package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/helpers"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

// LockControl opens and closes the wallet unlock gate.
type LockControl interface {
	Unlock()
	Lock()
	IsUnlocked() bool
}

// WalletHandler manages wallet lock state and account selection.
type WalletHandler struct {
	gate     LockControl
	accounts wallet.AccountStore
	now      func() time.Time
}

func NewWalletHandler(gate LockControl, accounts wallet.AccountStore) *WalletHandler {
	return &WalletHandler{gate: gate, accounts: accounts, now: time.Now}
}

// WalletStatusResponse reports the lock state.
type WalletStatusResponse struct {
	Unlocked bool `json:"unlocked"`
}

// AddAccountRequest adds an account to the wallet.
type AddAccountRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *WalletHandler) Status(c *gin.Context) {
	sendSuccess(c, http.StatusOK, WalletStatusResponse{Unlocked: h.gate.IsUnlocked()})
}

// Unlock releases every request waiting on the unlock gate.
func (h *WalletHandler) Unlock(c *gin.Context) {
	h.gate.Unlock()
	sendSuccess(c, http.StatusOK, WalletStatusResponse{Unlocked: true})
}

func (h *WalletHandler) Lock(c *gin.Context) {
	h.gate.Lock()
	sendSuccess(c, http.StatusOK, WalletStatusResponse{Unlocked: false})
}

// ListAccounts returns the wallet accounts, most recently selected first.
func (h *WalletHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": accounts})
}

func (h *WalletHandler) AddAccount(c *gin.Context) {
	var req AddAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !helpers.IsAddressValid(req.Address) {
		sendError(c, http.StatusBadRequest, "Invalid address", nil)
		return
	}
	if err := h.accounts.AddAccount(c.Request.Context(), req.Address); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to add account", err)
		return
	}
	sendSuccess(c, http.StatusCreated, SuccessResponse{Message: "Account added"})
}

// SelectAccount marks an account as the most recently selected.
func (h *WalletHandler) SelectAccount(c *gin.Context) {
	address := c.Param("address")
	if !helpers.IsAddressValid(address) {
		sendError(c, http.StatusBadRequest, "Invalid address", nil)
		return
	}
	err := h.accounts.SelectAccount(c.Request.Context(), address, h.now())
	switch {
	case errors.Is(err, wallet.ErrAccountNotFound):
		sendError(c, http.StatusNotFound, "Account not found", err)
	case err != nil:
		sendError(c, http.StatusInternalServerError, "Failed to select account", err)
	default:
		sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Account selected"})
	}
}
