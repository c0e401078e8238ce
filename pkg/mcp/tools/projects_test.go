package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeText[T any](t *testing.T, resp toolCallResponse) T {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected JSON-RPC error")
	require.Len(t, resp.Result.Content, 1)
	var out T
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &out))
	return out
}

func TestListProjectsTool_ReturnsOnlyOwnersProjects(t *testing.T) {
	s, projects := newToolServer(t)
	mine := projects.add("user-1", "PetPal")
	projects.add("user-2", "Other")

	resp := callTool(t, ownerContext("user-1"), s, "list_projects", nil)
	out := decodeText[struct {
		Projects []projectSummary `json:"projects"`
		Count    int              `json:"count"`
	}](t, resp)

	assert.False(t, resp.Result.IsError)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Projects, 1)
	assert.Equal(t, mine.ID.String(), out.Projects[0].ProjectID)
	assert.Equal(t, "PetPal", out.Projects[0].Name)
	assert.Equal(t, "2026-03-01T12:00:00Z", out.Projects[0].CreatedAt)
}

func TestListProjectsTool_EmptyListIsArray(t *testing.T) {
	s, _ := newToolServer(t)

	resp := callTool(t, ownerContext("user-1"), s, "list_projects", nil)
	require.Len(t, resp.Result.Content, 1)
	assert.Contains(t, resp.Result.Content[0].Text, `"projects":[]`)
}

func TestListProjectsTool_Unauthenticated(t *testing.T) {
	s, _ := newToolServer(t)

	resp := callTool(t, context.Background(), s, "list_projects", nil)
	errResp := decodeText[ErrorResponse](t, resp)

	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "unauthorized", errResp.Code)
}

func TestGetBlueprintTool(t *testing.T) {
	s, projects := newToolServer(t)
	p := projects.add("user-1", "PetPal")

	resp := callTool(t, ownerContext("user-1"), s, "get_blueprint", map[string]any{"project_id": p.ID.String()})
	out := decodeText[map[string]any](t, resp)

	assert.Equal(t, p.ID.String(), out["project_id"])
	blueprint, ok := out["blueprint"].(map[string]any)
	require.True(t, ok)
	platform, ok := blueprint["platform"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PetPal", platform["name"])
}

func TestGetBlueprintTool_OtherOwnerIsNotFound(t *testing.T) {
	s, projects := newToolServer(t)
	p := projects.add("user-2", "Other")

	resp := callTool(t, ownerContext("user-1"), s, "get_blueprint", map[string]any{"project_id": p.ID.String()})
	errResp := decodeText[ErrorResponse](t, resp)

	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "project_not_found", errResp.Code)
}

func TestGetBlueprintTool_InvalidProjectID(t *testing.T) {
	s, _ := newToolServer(t)

	resp := callTool(t, ownerContext("user-1"), s, "get_blueprint", map[string]any{"project_id": "not-a-uuid"})
	errResp := decodeText[ErrorResponse](t, resp)

	assert.Equal(t, "invalid_parameters", errResp.Code)
	assert.Contains(t, errResp.Message, "UUID")
}

func TestGetBlueprintTool_MissingProjectID(t *testing.T) {
	s, _ := newToolServer(t)

	resp := callTool(t, ownerContext("user-1"), s, "get_blueprint", map[string]any{})
	errResp := decodeText[ErrorResponse](t, resp)

	assert.Equal(t, "invalid_parameters", errResp.Code)
	assert.Contains(t, errResp.Message, "project_id")
}

func TestGetKanbanTool(t *testing.T) {
	s, projects := newToolServer(t)
	p := projects.add("user-1", "PetPal")

	resp := callTool(t, ownerContext("user-1"), s, "get_kanban", map[string]any{"project_id": p.ID.String()})
	out := decodeText[map[string]any](t, resp)

	columns, ok := out["columns"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, columns, "todo")
}

func TestGetUserFlowTool(t *testing.T) {
	s, projects := newToolServer(t)
	p := projects.add("user-1", "PetPal")

	resp := callTool(t, ownerContext("user-1"), s, "get_user_flow", map[string]any{"project_id": p.ID.String()})
	out := decodeText[map[string]any](t, resp)

	nodes, ok := out["nodes"].([]any)
	require.True(t, ok)
	assert.Len(t, nodes, 1)
}

func TestGetUserFlowTool_UnknownProject(t *testing.T) {
	s, _ := newToolServer(t)

	resp := callTool(t, ownerContext("user-1"), s, "get_user_flow", map[string]any{"project_id": uuid.NewString()})
	errResp := decodeText[ErrorResponse](t, resp)

	assert.Equal(t, "project_not_found", errResp.Code)
}

func TestGetMemoryBankTool(t *testing.T) {
	s, projects := newToolServer(t)
	p := projects.add("user-1", "PetPal")

	resp := callTool(t, ownerContext("user-1"), s, "get_memory_bank", map[string]any{"project_id": p.ID.String()})
	out := decodeText[map[string]any](t, resp)

	assert.Equal(t, "notes for PetPal", out["content"])
}

func TestProjectTools_AreReadOnly(t *testing.T) {
	s, _ := newToolServer(t)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`)))
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Annotations struct {
					ReadOnlyHint *bool `json:"readOnlyHint"`
				} `json:"annotations"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
		require.NotNil(t, tool.Annotations.ReadOnlyHint, tool.Name)
		assert.True(t, *tool.Annotations.ReadOnlyHint, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_projects", "get_blueprint", "get_kanban", "get_user_flow", "get_memory_bank"}, names)
}
