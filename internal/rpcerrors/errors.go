// Package rpcerrors defines the JSON-RPC error envelope returned to dapps.
package rpcerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Standard JSON-RPC and EIP-1193 provider error codes.
const (
	CodeInvalidRequest      = -32600
	CodeMethodNotFound      = -32601
	CodeInvalidParams       = -32602
	CodeInternal            = -32603
	CodeResourceUnavailable = -32002
	CodeUserRejectedRequest = 4001
	CodeUnauthorized        = 4100
)

// Error is a structured RPC error. It is surfaced to callers unmodified.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func newError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ResourceUnavailable signals a busy resource; callers may retry later.
func ResourceUnavailable(message string) *Error {
	return newError(CodeResourceUnavailable, message)
}

// UserRejectedRequest signals the user declined the request.
func UserRejectedRequest() *Error {
	return newError(CodeUserRejectedRequest, "User rejected the request.")
}

// Unauthorized signals the origin has not been granted access.
func Unauthorized() *Error {
	return newError(CodeUnauthorized, "The requested account and/or method has not been authorized by the user.")
}

func MethodNotFound(method string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: "The method does not exist / is not available.", Data: map[string]string{"method": method}}
}

func InvalidRequest(message string) *Error {
	return newError(CodeInvalidRequest, message)
}

func InvalidParams(message string) *Error {
	return newError(CodeInvalidParams, message)
}

// Internal wraps an unexpected failure.
func Internal(message string) *Error {
	return newError(CodeInternal, message)
}

// FromError returns the RPC error carried by err, or an internal error
// wrapping its message when err is not an RPC error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	if rpcErr, ok := errors.Cause(err).(*Error); ok {
		return rpcErr
	}
	return Internal(err.Error())
}

// IsCode reports whether err carries an RPC error with the given code.
func IsCode(err error, code int) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}
