// Package mcp implements the Model Context Protocol server for escrituras.
package mcp

import (
	"context"
	"errors"
	"fmt"

	serr "github.com/noahread/escrituras/internal/errors"
)

// Custom MCP error codes on top of the JSON-RPC standard ones.
const (
	// ErrCodeDataNotLoaded indicates the corpus or embedding data is missing.
	ErrCodeDataNotLoaded = -32001

	// ErrCodeEmbeddingFailed indicates query embedding failed.
	ErrCodeEmbeddingFailed = -32002

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError is a protocol-level error with a JSON-RPC code. Domain failures
// that should keep the channel open (bad reference, no such verse) are not
// MCPErrors; handlers return those as isError tool results instead.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError creates an invalid-params error with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// MapError converts internal errors to protocol errors by category.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	}

	var e *serr.Error
	if !errors.As(err, &e) {
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}

	message := e.Message
	if e.Suggestion != "" {
		message = fmt.Sprintf("%s %s", e.Message, e.Suggestion)
	}

	switch e.Category {
	case serr.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	case serr.CategoryData:
		if e.Code == serr.ErrCodeMissingEmbedding {
			return &MCPError{Code: ErrCodeEmbeddingFailed, Message: message}
		}
		return &MCPError{Code: ErrCodeDataNotLoaded, Message: message}
	case serr.CategoryNetwork:
		return &MCPError{Code: ErrCodeEmbeddingFailed, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
