package llm

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrorType indicates which part of the provider interaction failed.
type ErrorType string

const (
	ErrorTypeNone        ErrorType = ""
	ErrorTypeEndpoint    ErrorType = "endpoint"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeModel       ErrorType = "model"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeRateLimited ErrorType = "rate_limited"
	ErrorTypeResponse    ErrorType = "response"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a structured LLM error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Model      string    // Model name if known
	Endpoint   string    // Endpoint URL if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}
	if e.Endpoint != "" {
		// Only the host; paths and query strings may carry credentials.
		if u, err := url.Parse(e.Endpoint); err == nil && u.Host != "" {
			parts = append(parts, fmt.Sprintf("endpoint=%s", u.Host))
		}
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := extractStatusCode(errStr)

	classified := func(t ErrorType, msg string) *Error {
		e := NewError(t, msg, err)
		e.StatusCode = statusCode
		return e
	}

	switch {
	case statusCode == 401 || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "invalid x-api-key") ||
		strings.Contains(lower, "authentication_error"):
		return classified(ErrorTypeAuth, "authentication failed")

	case strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")):
		return classified(ErrorTypeModel, "model not found")

	case statusCode == 404:
		return classified(ErrorTypeEndpoint, "endpoint not found")

	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return classified(ErrorTypeEndpoint, "connection failed")

	case strings.Contains(lower, "context canceled"):
		return classified(ErrorTypeTimeout, "request cancelled")

	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return classified(ErrorTypeTimeout, "request timeout")

	case statusCode == 429 || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate_limit") || strings.Contains(lower, "too many requests"):
		return classified(ErrorTypeRateLimited, "rate limited")

	case statusCode == 529 || strings.Contains(lower, "overloaded"):
		return classified(ErrorTypeEndpoint, "provider overloaded")

	case statusCode >= 500:
		return classified(ErrorTypeEndpoint, "server error")
	}

	return classified(ErrorTypeUnknown, "llm error")
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

// statusCodePattern only accepts a code that follows an HTTP/status/code
// marker, so numbers like "processed 503 records" are not mistaken for one.
var statusCodePattern = regexp.MustCompile(`(?i)\b(?:http|status|code)\b[\s:=]*([1-5]\d{2})\b`)

// extractStatusCode pulls an HTTP status code out of an error string, or 0.
func extractStatusCode(errStr string) int {
	m := statusCodePattern.FindStringSubmatch(errStr)
	if len(m) < 2 {
		return 0
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return code
}
