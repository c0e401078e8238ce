package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnthropicTestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func messagesBody(content []map[string]any, stopReason string) string {
	body, _ := json.Marshal(map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-sonnet-4-5-20250929",
		"content":     content,
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 60},
	})
	return string(body)
}

func newTestAnthropicGenerator(t *testing.T, baseURL string) *AnthropicGenerator {
	t.Helper()
	gen, err := NewAnthropicGenerator(&Config{APIKey: "sk-ant-test", Model: "claude-sonnet-4-5-20250929", BaseURL: baseURL, MaxTokens: 1000}, zap.NewNop())
	require.NoError(t, err)
	return gen
}

func TestAnthropicGenerator_ToolUse(t *testing.T) {
	var captured map[string]any
	body := messagesBody([]map[string]any{{
		"type":  "tool_use",
		"id":    "toolu_1",
		"name":  "project_blueprint",
		"input": map[string]any{"name": "Taskly"},
	}}, "tool_use")
	server := newAnthropicTestServer(t, http.StatusOK, body, &captured)
	gen := newTestAnthropicGenerator(t, server.URL)

	result, err := gen.GenerateStructured(context.Background(), testStructuredRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Taskly"}`, string(result.Content))
	assert.Equal(t, 100, result.TotalTokens)

	// The schema travels as the input schema of a forced tool call.
	choice := captured["tool_choice"].(map[string]any)
	assert.Equal(t, "tool", choice["type"])
	assert.Equal(t, "project_blueprint", choice["name"])
	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "object", tools[0].(map[string]any)["input_schema"].(map[string]any)["type"])
	assert.Equal(t, "system", captured["system"])
}

func TestAnthropicGenerator_TextFallback(t *testing.T) {
	body := messagesBody([]map[string]any{{
		"type": "text",
		"text": "Here you go:\n{\"name\": \"Taskly\"}",
	}}, "end_turn")
	server := newAnthropicTestServer(t, http.StatusOK, body, nil)
	gen := newTestAnthropicGenerator(t, server.URL)

	result, err := gen.GenerateStructured(context.Background(), testStructuredRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Taskly"}`, string(result.Content))
}

func TestAnthropicGenerator_MaxTokens(t *testing.T) {
	body := messagesBody([]map[string]any{{"type": "text", "text": `{"name": "Tas`}}, "max_tokens")
	server := newAnthropicTestServer(t, http.StatusOK, body, nil)
	gen := newTestAnthropicGenerator(t, server.URL)

	_, err := gen.GenerateStructured(context.Background(), testStructuredRequest())

	require.Error(t, err)
	assert.Equal(t, ErrorTypeResponse, GetErrorType(err))
}

func TestAnthropicGenerator_EmptyContent(t *testing.T) {
	server := newAnthropicTestServer(t, http.StatusOK, messagesBody([]map[string]any{}, "end_turn"), nil)
	gen := newTestAnthropicGenerator(t, server.URL)

	_, err := gen.GenerateStructured(context.Background(), testStructuredRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tool call or text")
}

func TestAnthropicGenerator_APIError(t *testing.T) {
	body := `{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`
	server := newAnthropicTestServer(t, http.StatusUnauthorized, body, nil)
	gen := newTestAnthropicGenerator(t, server.URL)

	_, err := gen.GenerateStructured(context.Background(), testStructuredRequest())

	require.Error(t, err)
	assert.Equal(t, ErrorTypeAuth, GetErrorType(err))
}
