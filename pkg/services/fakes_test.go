package services

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/schema"
)

// ============================================================================
// In-memory repositories shared by the service tests
// ============================================================================

type fakeStore struct {
	projects map[uuid.UUID]*models.Project
	kanbans  map[uuid.UUID]*models.Kanban
	flows    map[uuid.UUID]*models.UserFlow
	banks    map[uuid.UUID]*models.MemoryBank

	createErr error
	getErr    error

	createCalls       int
	getByOwnerCalls   int
	kanbanCreateCalls int
	flowCreateCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: make(map[uuid.UUID]*models.Project),
		kanbans:  make(map[uuid.UUID]*models.Kanban),
		flows:    make(map[uuid.UUID]*models.UserFlow),
		banks:    make(map[uuid.UUID]*models.MemoryBank),
	}
}

// addProject stores a project with the given blueprint content and no sub-resources.
func (s *fakeStore) addProject(ownerID string, content models.BlueprintContent) *models.Project {
	id := uuid.New()
	p := &models.Project{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Legacy",
		CreatedAt: time.Now(),
		Blueprint: &models.Blueprint{ID: uuid.New(), ProjectID: id, Title: models.BlueprintTitle("Legacy"), Content: content},
	}
	s.projects[id] = p
	return p
}

type fakeProjectRepo struct{ *fakeStore }

func (r fakeProjectRepo) CreateWithResources(ctx context.Context, bundle *models.ProjectBundle) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	now := time.Now()
	bundle.Project.CreatedAt, bundle.Project.UpdatedAt = now, now
	bundle.Blueprint.CreatedAt = now
	bundle.Project.Blueprint = bundle.Blueprint
	r.projects[bundle.Project.ID] = bundle.Project
	r.kanbans[bundle.Project.ID] = bundle.Kanban
	r.flows[bundle.Project.ID] = bundle.UserFlow
	r.banks[bundle.Project.ID] = bundle.MemoryBank
	return nil
}

func (r fakeProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	result := []*models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r fakeProjectRepo) GetByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	r.getByOwnerCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (r fakeProjectRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(r.projects, id)
	delete(r.kanbans, id)
	delete(r.flows, id)
	delete(r.banks, id)
	return nil
}

type fakeKanbanRepo struct{ *fakeStore }

func (r fakeKanbanRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Kanban, error) {
	k, ok := r.kanbans[projectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return k, nil
}

func (r fakeKanbanRepo) CreateIfAbsent(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error) {
	r.kanbanCreateCalls++
	if existing, ok := r.kanbans[kanban.ProjectID]; ok {
		return existing, nil
	}
	kanban.CreatedAt, kanban.UpdatedAt = time.Now(), time.Now()
	r.kanbans[kanban.ProjectID] = kanban
	return kanban, nil
}

func (r fakeKanbanRepo) Upsert(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error) {
	if existing, ok := r.kanbans[kanban.ProjectID]; ok {
		existing.Columns = kanban.Columns
		existing.UpdatedAt = time.Now()
		return existing, nil
	}
	kanban.CreatedAt, kanban.UpdatedAt = time.Now(), time.Now()
	r.kanbans[kanban.ProjectID] = kanban
	return kanban, nil
}

type fakeUserFlowRepo struct{ *fakeStore }

func (r fakeUserFlowRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.UserFlow, error) {
	f, ok := r.flows[projectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return f, nil
}

func (r fakeUserFlowRepo) CreateIfAbsent(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error) {
	r.flowCreateCalls++
	if existing, ok := r.flows[flow.ProjectID]; ok {
		return existing, nil
	}
	r.flows[flow.ProjectID] = flow
	return flow, nil
}

func (r fakeUserFlowRepo) Upsert(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error) {
	if existing, ok := r.flows[flow.ProjectID]; ok {
		existing.Nodes, existing.Edges = flow.Nodes, flow.Edges
		return existing, nil
	}
	r.flows[flow.ProjectID] = flow
	return flow, nil
}

type fakeMemoryBankRepo struct{ *fakeStore }

func (r fakeMemoryBankRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.MemoryBank, error) {
	b, ok := r.banks[projectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return b, nil
}

// ============================================================================
// Fixtures
// ============================================================================

// exampleContent returns the worked example blueprint as validated content.
func exampleContent(t *testing.T) *models.BlueprintContent {
	t.Helper()
	content, err := schema.ValidateJSON([]byte(prompts.ExampleBlueprintJSON))
	require.NoError(t, err)
	return content
}

// legacyContent is example content as a pre-split blueprint row stores it.
func legacyContent(t *testing.T) models.BlueprintContent {
	t.Helper()
	return *exampleContent(t)
}

// coreContent is example content with the extracted substructures removed.
func coreContent(t *testing.T) models.BlueprintContent {
	t.Helper()
	core, _, _, _ := models.SplitBlueprint(exampleContent(t))
	return core
}

func exampleJSON() json.RawMessage {
	return json.RawMessage(prompts.ExampleBlueprintJSON)
}

var validIdea = prompts.Idea{
	Title:       "Pet Care Planner",
	Description: "A planner that reminds pet owners about feeding time.",
}
