package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("test_error", "this is a test error")

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	assert.True(t, result.IsError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(getTextContent(result)), &errResp))

	assert.True(t, errResp.Error, "error field should be true")
	assert.Equal(t, "test_error", errResp.Code)
	assert.Equal(t, "this is a test error", errResp.Message)
	assert.Nil(t, errResp.Details, "details should be nil when not provided")
}

func TestNewErrorResultWithDetails(t *testing.T) {
	result := NewErrorResultWithDetails("invalid_parameters", "bad project id", map[string]any{"project_id": "abc"})

	var errResp map[string]any
	require.NoError(t, json.Unmarshal([]byte(getTextContent(result)), &errResp))

	assert.Equal(t, true, errResp["error"])
	assert.Equal(t, "invalid_parameters", errResp["code"])
	details, ok := errResp["details"].(map[string]any)
	require.True(t, ok, "details should be an object")
	assert.Equal(t, "abc", details["project_id"])
}

func TestServiceErrorResult(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"not found", fmt.Errorf("get project: %w", apperrors.ErrNotFound), "project_not_found"},
		{"unauthenticated", apperrors.ErrUnauthenticated, "unauthorized"},
		{"invalid input", fmt.Errorf("%w: columns is required", apperrors.ErrInvalidInput), "invalid_parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serviceErrorResult(tt.err)
			require.NotNil(t, result)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(getTextContent(result)), &errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestServiceErrorResult_SystemErrorIsNil(t *testing.T) {
	assert.Nil(t, serviceErrorResult(errors.New("connection refused")))
	assert.Nil(t, serviceErrorResult(apperrors.ErrPersistenceFailed))
}

func TestIsInputError(t *testing.T) {
	assert.False(t, IsInputError(nil))
	assert.True(t, IsInputError(apperrors.ErrNotFound))
	assert.True(t, IsInputError(fmt.Errorf("%w: nodes is required", apperrors.ErrInvalidInput)))
	assert.True(t, IsInputError(errors.New("missing required parameter: project_id")))
	assert.False(t, IsInputError(errors.New("connection reset by peer")))
}
