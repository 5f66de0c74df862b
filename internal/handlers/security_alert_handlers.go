package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/securityalerts"
)

// SecurityAlertsValidator is the security alerts API client.
type SecurityAlertsValidator interface {
	IsEnabled() bool
	Validate(ctx context.Context, chainID string, req securityalerts.Request, shield *securityalerts.ShieldParams) (json.RawMessage, error)
}

// SecurityAlertHandler proxies transaction validation to the security
// alerts API.
type SecurityAlertHandler struct {
	client SecurityAlertsValidator
	shield *securityalerts.ShieldParams
}

// NewSecurityAlertHandler returns a handler. shield may be nil.
func NewSecurityAlertHandler(client SecurityAlertsValidator, shield *securityalerts.ShieldParams) *SecurityAlertHandler {
	return &SecurityAlertHandler{client: client, shield: shield}
}

// Validate serves POST /security-alerts/validate/:chain_id with a
// {method, params} body and returns the API response unchanged.
func (h *SecurityAlertHandler) Validate(c *gin.Context) {
	if !h.client.IsEnabled() {
		sendError(c, http.StatusNotFound, "Security alerts API is disabled", nil)
		return
	}

	var req securityalerts.Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Method == "" {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	body, err := h.client.Validate(c.Request.Context(), c.Param("chain_id"), req, h.shield)
	if err != nil {
		var statusErr *securityalerts.StatusError
		switch {
		case errors.Is(err, securityalerts.ErrConfiguration):
			sendError(c, http.StatusInternalServerError, "Security alerts API is misconfigured", err)
		case errors.As(err, &statusErr):
			sendError(c, http.StatusBadGateway, statusErr.Error(), err)
		default:
			sendError(c, http.StatusBadGateway, "Security alerts API request failed", err)
		}
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
