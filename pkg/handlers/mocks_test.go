package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// mockProjectService is a configurable mock for project handler tests.
type mockProjectService struct {
	created  *services.CreatedProject
	project  *models.Project
	projects []*models.Project
	bank     *models.MemoryBank
	err      error

	lastOwner string
	lastIdea  prompts.Idea
	lastID    uuid.UUID
	deleted   bool
}

func (m *mockProjectService) Create(ctx context.Context, ownerID string, idea prompts.Idea) (*services.CreatedProject, error) {
	m.lastOwner, m.lastIdea = ownerID, idea
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockProjectService) List(ctx context.Context, ownerID string) ([]*models.Project, error) {
	m.lastOwner = ownerID
	if m.err != nil {
		return nil, m.err
	}
	return m.projects, nil
}

func (m *mockProjectService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	m.lastOwner, m.lastID = ownerID, id
	if m.err != nil {
		return nil, m.err
	}
	return m.project, nil
}

func (m *mockProjectService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	m.lastOwner, m.lastID = ownerID, id
	if m.err != nil {
		return m.err
	}
	m.deleted = true
	return nil
}

func (m *mockProjectService) GetMemoryBank(ctx context.Context, ownerID string, id uuid.UUID) (*models.MemoryBank, error) {
	m.lastOwner, m.lastID = ownerID, id
	if m.err != nil {
		return nil, m.err
	}
	return m.bank, nil
}

// mockExportService returns a fixed document.
type mockExportService struct {
	doc []byte
	err error
}

func (m *mockExportService) Export(ctx context.Context, ownerID string, projectID uuid.UUID) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

// mockKanbanService records the columns it was asked to store.
type mockKanbanService struct {
	board       *models.Kanban
	err         error
	lastColumns map[string]models.KanbanColumn
	upserts     int
}

func (m *mockKanbanService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.Kanban, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.board, nil
}

func (m *mockKanbanService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, columns map[string]models.KanbanColumn) (*models.Kanban, error) {
	m.upserts++
	m.lastColumns = columns
	if m.err != nil {
		return nil, m.err
	}
	return &models.Kanban{ProjectID: projectID, Columns: columns}, nil
}

// mockUserFlowService records the graph it was asked to store.
type mockUserFlowService struct {
	flow      *models.UserFlow
	err       error
	lastNodes []models.FlowNode
	lastEdges []models.FlowEdge
	upserts   int
}

func (m *mockUserFlowService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.UserFlow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.flow, nil
}

func (m *mockUserFlowService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, nodes []models.FlowNode, edges []models.FlowEdge) (*models.UserFlow, error) {
	m.upserts++
	m.lastNodes, m.lastEdges = nodes, edges
	if m.err != nil {
		return nil, m.err
	}
	return &models.UserFlow{ProjectID: projectID, Nodes: nodes, Edges: edges}, nil
}

// mockAuthService authenticates every request that carries a bearer token
// as subject, and rejects the rest.
type mockAuthService struct {
	subject string
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*auth.Claims, string, error) {
	if r.Header.Get("Authorization") == "" {
		return nil, "", auth.ErrMissingAuthorization
	}
	claims := &auth.Claims{}
	claims.Subject = m.subject
	return claims, "test-token", nil
}

func (m *mockAuthService) RequireSubject(claims *auth.Claims) error {
	if claims == nil || claims.Subject == "" {
		return auth.ErrMissingSubject
	}
	return nil
}

func newTestAuthMiddleware(subject string) *auth.Middleware {
	return auth.NewMiddleware(&mockAuthService{subject: subject}, zap.NewNop())
}

// passthroughOwner stands in for the database owner scope.
func passthroughOwner(next http.HandlerFunc) http.HandlerFunc {
	return next
}

var errDatabaseDown = errors.New("database down")
