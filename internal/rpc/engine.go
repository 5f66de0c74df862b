// Package rpc dispatches JSON-RPC 2.0 requests from dapps to method handlers.
package rpc

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/logger"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      json.RawMessage  `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *rpcerrors.Error `json:"error,omitempty"`
}

// HandlerFunc serves one method for origin.
type HandlerFunc func(ctx context.Context, origin string, params json.RawMessage) (interface{}, error)

// Engine routes requests by method name.
type Engine struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   *zap.Logger
}

// NewEngine returns an Engine with no methods.
func NewEngine() *Engine {
	return &Engine{
		handlers: make(map[string]HandlerFunc),
		logger:   logger.Log,
	}
}

// Register adds or replaces the handler for method.
func (e *Engine) Register(method string, fn HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[method] = fn
}

// Methods lists registered method names.
func (e *Engine) Methods() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.handlers))
	for m := range e.handlers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Handle runs req on behalf of origin. Handler errors are rendered as RPC
// errors; errors that are not RPC errors become internal errors.
func (e *Engine) Handle(ctx context.Context, origin string, req Request) Response {
	resp := Response{JSONRPC: constants.JSONRPCVersion, ID: req.ID}
	if resp.ID == nil {
		resp.ID = json.RawMessage("null")
	}

	if req.JSONRPC != constants.JSONRPCVersion || req.Method == "" {
		resp.Error = rpcerrors.InvalidRequest("Invalid JSON-RPC request.")
		return resp
	}

	e.mu.RLock()
	fn, ok := e.handlers[req.Method]
	e.mu.RUnlock()
	if !ok {
		resp.Error = rpcerrors.MethodNotFound(req.Method)
		return resp
	}

	result, err := fn(ctx, origin, req.Params)
	if err != nil {
		rpcErr := rpcerrors.FromError(err)
		if rpcErr.Code == rpcerrors.CodeInternal {
			e.logger.Error("RPC method failed",
				zap.String("method", req.Method),
				zap.String("origin", origin),
				zap.Error(err))
		}
		resp.Error = rpcErr
		return resp
	}
	resp.Result = result
	return resp
}
