package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

// ApiResponse is the envelope of every JSON response.
// Success responses carry Data; failures carry a message in Error and a
// machine-readable Code.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse writes a JSON error envelope and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, ApiResponse{
		Success: false,
		Error:   message,
		Code:    errorCode,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, statusCode int, data any) error {
	return WriteJSON(w, statusCode, ApiResponse{Success: true, Data: data})
}

// errorMapping is the HTTP rendering of an application error.
type errorMapping struct {
	status  int
	code    string
	message string // empty means the error text is safe to show
}

// mapError translates service errors into HTTP status, code and message.
// Internal error text never reaches the client for 5xx responses.
func mapError(err error) errorMapping {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return errorMapping{status: http.StatusBadRequest, code: "invalid_input"}
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return errorMapping{status: http.StatusUnauthorized, code: "unauthorized", message: "Authentication required"}
	case errors.Is(err, apperrors.ErrNotFound):
		return errorMapping{status: http.StatusNotFound, code: "not_found", message: "Project not found"}
	case errors.Is(err, apperrors.ErrGenerationTimeout):
		return errorMapping{status: http.StatusInternalServerError, code: "generation_timeout", message: "Blueprint generation timed out"}
	case errors.Is(err, apperrors.ErrGenerationFailed):
		return errorMapping{status: http.StatusInternalServerError, code: "generation_failed", message: "Failed to generate blueprint"}
	case errors.Is(err, apperrors.ErrPersistenceFailed):
		return errorMapping{status: http.StatusInternalServerError, code: "persistence_failed", message: "Failed to save project"}
	default:
		return errorMapping{status: http.StatusInternalServerError, code: "internal_error", message: "Internal server error"}
	}
}

// writeServiceError renders err and logs it when it is a server-side failure.
func writeServiceError(w http.ResponseWriter, err error, logger *zap.Logger, action string) {
	m := mapError(err)
	message := m.message
	if message == "" {
		message = err.Error()
	}
	if m.status >= http.StatusInternalServerError {
		logger.Error(action+" failed", zap.String("code", m.code), zap.Error(err))
	}
	if werr := ErrorResponse(w, m.status, m.code, message); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}
