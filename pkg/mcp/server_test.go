package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/mcp/tools"
)

func TestNewServer(t *testing.T) {
	logger := zap.NewNop()
	s := NewServer("test-server", "1.0.0", logger)

	require.NotNil(t, s)
	require.NotNil(t, s.mcp)
	assert.Same(t, logger, s.logger)
	assert.Same(t, s.mcp, s.MCP())
}

func TestServer_NewStreamableHTTPServer(t *testing.T) {
	s := NewServer("test-server", "1.0.0", zap.NewNop())
	assert.NotNil(t, s.NewStreamableHTTPServer())
}

func TestNewProjectServer_RegistersTools(t *testing.T) {
	s := NewProjectServer("1.0.0", &tools.ProjectToolDeps{Logger: zap.NewNop()}, zap.NewNop())

	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`)))
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t,
		[]string{"health", "list_projects", "get_blueprint", "get_kanban", "get_user_flow", "get_memory_bank"},
		names)
}

// TestServer_HTTPContextPropagation verifies that JWT claims from the HTTP
// request context reach MCP tool handlers.
func TestServer_HTTPContextPropagation(t *testing.T) {
	var receivedUser string

	s := NewServer("test-server", "1.0.0", zap.NewNop())
	tool := mcp.NewTool("whoami", mcp.WithDescription("Reports the caller"))
	s.RegisterTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		receivedUser = auth.GetUserIDFromContext(ctx)
		return mcp.NewToolResultText("ok"), nil
	})

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"params":  map[string]any{"name": "whoami"},
		"id":      1,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	claims := &auth.Claims{}
	claims.Subject = "user-42"
	req = req.WithContext(auth.WithClaims(req.Context(), claims, "token"))

	rec := httptest.NewRecorder()
	s.NewStreamableHTTPServer().ServeHTTP(rec, req)

	assert.Equal(t, "user-42", receivedUser)
}
