package tools

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// It is returned as a successful tool result so the calling agent sees the
// error details instead of a bare protocol failure.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for errors the caller can act on (bad parameters, unknown project).
//
// Do NOT use this for system failures (database connection errors,
// internal server errors) - those should still return Go errors.
//
// Example:
//
//	if errors.Is(err, apperrors.ErrNotFound) {
//	    return NewErrorResult("project_not_found", "no project with that id"), nil
//	}
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// serviceErrorResult converts caller-facing service errors into error results.
// Returns nil for anything else; the caller should return a Go error then.
func serviceErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return NewErrorResult("unauthorized", "authentication required")
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("project_not_found", "project not found")
	case errors.Is(err, apperrors.ErrInvalidInput):
		return NewErrorResult("invalid_parameters", err.Error())
	}
	return nil
}

// inputErrorPatterns are substrings that indicate an error is due to user input
// rather than a server failure.
var inputErrorPatterns = []string{
	"not found",
	"invalid input",
	"invalid project_id",
	"missing required",
	"cannot be empty",
}

// IsInputError returns true if the error appears to be caused by user input
// rather than a server failure. Input errors are logged at DEBUG, not ERROR.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidInput) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range inputErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
