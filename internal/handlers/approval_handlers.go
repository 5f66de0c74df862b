package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/approvals"
)

// ApprovalQueue is the pending approval store the UI drives.
type ApprovalQueue interface {
	List() []approvals.Request
	Get(id string) (approvals.Request, error)
	Resolve(id string, result approvals.Result) error
	Reject(id string, err error) error
}

// ApprovalHandler exposes pending approvals to the wallet UI.
type ApprovalHandler struct {
	queue ApprovalQueue
}

func NewApprovalHandler(queue ApprovalQueue) *ApprovalHandler {
	return &ApprovalHandler{queue: queue}
}

// ApproveRequest carries the UI's answer. Value is request-type specific,
// e.g. {"accounts": [...]} for permission requests.
type ApproveRequest struct {
	Approved *bool           `json:"approved"`
	Value    json.RawMessage `json:"value"`
}

// ListApprovals returns every pending approval, oldest first.
func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": h.queue.List()})
}

// GetApproval returns one pending approval.
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	req, err := h.queue.Get(c.Param("id"))
	if err != nil {
		h.handleQueueError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, req)
}

// Approve answers a pending approval. Approved defaults to true; false
// records an explicit decline.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	result := approvals.Result{Approved: req.Approved == nil || *req.Approved, Value: req.Value}
	if err := h.queue.Resolve(c.Param("id"), result); err != nil {
		h.handleQueueError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Approval resolved"})
}

// Reject cancels a pending approval as a user rejection.
func (h *ApprovalHandler) Reject(c *gin.Context) {
	if err := h.queue.Reject(c.Param("id"), nil); err != nil {
		h.handleQueueError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Approval rejected"})
}

func (h *ApprovalHandler) handleQueueError(c *gin.Context, err error) {
	if errors.Is(err, approvals.ErrNotFound) {
		sendError(c, http.StatusNotFound, "Approval not found", err)
		return
	}
	sendError(c, http.StatusInternalServerError, "Failed to update approval", err)
}
