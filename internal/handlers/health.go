package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Methods []string `json:"methods,omitempty"`
}

type HealthHandler struct {
	methods func() []string
}

// NewHealthHandler reports the registered RPC methods alongside the status.
func NewHealthHandler(methods func() []string) *HealthHandler {
	return &HealthHandler{methods: methods}
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.methods != nil {
		resp.Methods = h.methods()
	}
	c.JSON(http.StatusOK, resp)
}
