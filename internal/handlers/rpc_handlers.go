package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/rpc"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
)

// RPCEngine executes JSON-RPC requests.
type RPCEngine interface {
	Handle(ctx context.Context, origin string, req rpc.Request) rpc.Response
}

// RPCHandler serves the dapp-facing JSON-RPC endpoint.
type RPCHandler struct {
	engine RPCEngine
}

func NewRPCHandler(engine RPCEngine) *RPCHandler {
	return &RPCHandler{engine: engine}
}

// Handle serves POST /rpc. The calling dapp is identified by its Origin
// header. JSON-RPC errors are returned with status 200.
func (h *RPCHandler) Handle(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin == "" {
		c.JSON(http.StatusBadRequest, rpc.Response{
			JSONRPC: constants.JSONRPCVersion,
			ID:      []byte("null"),
			Error:   rpcerrors.InvalidRequest("Origin header is required."),
		})
		return
	}

	var req rpc.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, rpc.Response{
			JSONRPC: constants.JSONRPCVersion,
			ID:      []byte("null"),
			Error:   rpcerrors.InvalidRequest("Invalid JSON-RPC request."),
		})
		return
	}

	c.JSON(http.StatusOK, h.engine.Handle(c.Request.Context(), origin, req))
}
