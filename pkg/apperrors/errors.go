package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrGenerationFailed  = errors.New("blueprint generation failed")
	ErrGenerationTimeout = errors.New("blueprint generation timed out")
	ErrPersistenceFailed = errors.New("failed to persist project")
	ErrMissingAPIKey     = errors.New("LLM API key is not configured")
)
