package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// ExportService renders a project and everything generated for it as a
// single YAML document.
type ExportService interface {
	Export(ctx context.Context, ownerID string, projectID uuid.UUID) ([]byte, error)
}

// projectExport is the exported document. Keys follow the JSON API names.
type projectExport struct {
	Project struct {
		ID          uuid.UUID `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
	} `json:"project"`
	Blueprint  *models.BlueprintContent       `json:"blueprint,omitempty"`
	UserFlow   exportedUserFlow               `json:"userFlow"`
	Kanban     map[string]models.KanbanColumn `json:"kanban"`
	MemoryBank string                         `json:"memoryBank"`
	ExportedAt time.Time                      `json:"exportedAt"`
}

type exportedUserFlow struct {
	Nodes []models.FlowNode `json:"nodes"`
	Edges []models.FlowEdge `json:"edges"`
}

type exportService struct {
	projects  ProjectService
	kanbans   KanbanService
	userFlows UserFlowService
	now       func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(projects ProjectService, kanbans KanbanService, userFlows UserFlowService) ExportService {
	return &exportService{
		projects:  projects,
		kanbans:   kanbans,
		userFlows: userFlows,
		now:       time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, ownerID string, projectID uuid.UUID) ([]byte, error) {
	project, err := s.projects.Get(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	kanban, err := s.kanbans.GetOrBootstrap(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	flow, err := s.userFlows.GetOrBootstrap(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	bank, err := s.projects.GetMemoryBank(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	var doc projectExport
	doc.Project.ID = project.ID
	doc.Project.Name = project.Name
	doc.Project.Description = project.Description
	doc.Project.CreatedAt = project.CreatedAt.UTC()
	if project.Blueprint != nil {
		content := project.Blueprint.Content
		content.UserFlowDiagram = nil
		content.KanbanTickets = nil
		doc.Blueprint = &content
	}
	doc.UserFlow = exportedUserFlow{Nodes: flow.Nodes, Edges: flow.Edges}
	doc.Kanban = kanban.Columns
	doc.MemoryBank = bank.Content
	doc.ExportedAt = s.now().UTC()

	return marshalYAML(doc)
}

// marshalYAML encodes v as block-style YAML using its JSON field names.
// The JSON encoding is parsed as YAML (JSON is a YAML subset) so key order
// and names survive, then flow styles are cleared.
func marshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert export: %w", err)
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return buf.Bytes(), nil
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}

// Ensure exportService implements ExportService at compile time.
var _ ExportService = (*exportService)(nil)
