package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// mockProjectService implements services.ProjectService over a map keyed by
// owner and project id.
type mockProjectService struct {
	projects map[string][]*models.Project
	banks    map[uuid.UUID]*models.MemoryBank
	err      error
}

func newMockProjectService() *mockProjectService {
	return &mockProjectService{
		projects: map[string][]*models.Project{},
		banks:    map[uuid.UUID]*models.MemoryBank{},
	}
}

func (m *mockProjectService) add(ownerID, name string) *models.Project {
	id := uuid.New()
	p := &models.Project{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Description: name + " description",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Blueprint: &models.Blueprint{
			ID:        uuid.New(),
			ProjectID: id,
			Title:     models.BlueprintTitle,
			Content:   models.BlueprintContent{Platform: models.Platform{Name: name}},
		},
	}
	m.projects[ownerID] = append(m.projects[ownerID], p)
	m.banks[id] = &models.MemoryBank{ID: uuid.New(), ProjectID: id, Content: "notes for " + name}
	return p
}

func (m *mockProjectService) Create(ctx context.Context, ownerID string, idea prompts.Idea) (*services.CreatedProject, error) {
	return nil, nil
}

func (m *mockProjectService) List(ctx context.Context, ownerID string) ([]*models.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.projects[ownerID], nil
}

func (m *mockProjectService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.projects[ownerID] {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProjectService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	return nil
}

func (m *mockProjectService) GetMemoryBank(ctx context.Context, ownerID string, id uuid.UUID) (*models.MemoryBank, error) {
	if _, err := m.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return m.banks[id], nil
}

// mockKanbanService implements services.KanbanService.
type mockKanbanService struct {
	projects *mockProjectService
}

func (m *mockKanbanService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.Kanban, error) {
	if _, err := m.projects.Get(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return &models.Kanban{
		ProjectID: projectID,
		Columns: map[string]models.KanbanColumn{
			"todo": {Title: "To Do", Tickets: []models.Ticket{{ID: "T-1", Title: "Sign up", Priority: "high", StoryPoints: 3}}},
		},
	}, nil
}

func (m *mockKanbanService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, columns map[string]models.KanbanColumn) (*models.Kanban, error) {
	return nil, nil
}

// mockUserFlowService implements services.UserFlowService.
type mockUserFlowService struct {
	projects *mockProjectService
}

func (m *mockUserFlowService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.UserFlow, error) {
	if _, err := m.projects.Get(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return &models.UserFlow{
		ProjectID: projectID,
		Nodes:     []models.FlowNode{{ID: "1", Type: "default", Data: models.NodeData{Title: "Landing"}}},
		Edges:     []models.FlowEdge{},
	}, nil
}

func (m *mockUserFlowService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, nodes []models.FlowNode, edges []models.FlowEdge) (*models.UserFlow, error) {
	return nil, nil
}

// newToolServer registers the project tools against fresh mocks.
func newToolServer(t *testing.T) (*server.MCPServer, *mockProjectService) {
	t.Helper()
	projects := newMockProjectService()
	s := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterProjectTools(s, &ProjectToolDeps{
		ProjectService:  projects,
		KanbanService:   &mockKanbanService{projects: projects},
		UserFlowService: &mockUserFlowService{projects: projects},
		Logger:          zap.NewNop(),
	})
	return s, projects
}

// ownerContext returns a context authenticated as ownerID.
func ownerContext(ownerID string) context.Context {
	claims := &auth.Claims{}
	claims.Subject = ownerID
	return auth.WithClaims(context.Background(), claims, "token")
}

type toolCallResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// callTool issues a tools/call through the server and decodes the response.
func callTool(t *testing.T, ctx context.Context, s *server.MCPServer, name string, args map[string]any) toolCallResponse {
	t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	request, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"params":  params,
		"id":      1,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(ctx, request))
	require.NoError(t, err)

	var resp toolCallResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

// getTextContent extracts the text string from the first text content item
func getTextContent(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	jsonBytes, _ := json.Marshal(result.Content[0])
	var textContent struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	_ = json.Unmarshal(jsonBytes, &textContent)
	return textContent.Text
}
