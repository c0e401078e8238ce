package models

import (
	"github.com/google/uuid"
)

// ProjectBundle is a project plus the four sub-resources that are created
// with it in a single write.
type ProjectBundle struct {
	Project    *Project
	Blueprint  *Blueprint
	UserFlow   *UserFlow
	Kanban     *Kanban
	MemoryBank *MemoryBank
}

// SplitBlueprint separates a generated blueprint into the content stored on
// the blueprint row and the two extracted substructures. The input is not
// modified. Missing substructures come back as empty, non-nil collections.
func SplitBlueprint(generated *BlueprintContent) (BlueprintContent, []FlowNode, []FlowEdge, map[string]KanbanColumn) {
	core := *generated
	core.UserFlowDiagram = nil
	core.KanbanTickets = nil

	nodes, edges := []FlowNode{}, []FlowEdge{}
	if d := generated.UserFlowDiagram; d != nil {
		if d.InitialNodes != nil {
			nodes = d.InitialNodes
		}
		if d.InitialEdges != nil {
			edges = d.InitialEdges
		}
	}

	columns := map[string]KanbanColumn{}
	if k := generated.KanbanTickets; k != nil && k.Columns != nil {
		columns = k.Columns
	}

	return core, nodes, edges, columns
}

// NewProjectBundle fans a generated blueprint out into a new project and its
// sub-resources. IDs are assigned here so the bundle can be written in one
// transaction without round trips; timestamps are set by the repository.
func NewProjectBundle(ownerID, title, description string, generated *BlueprintContent) *ProjectBundle {
	core, nodes, edges, columns := SplitBlueprint(generated)
	projectID := uuid.New()

	return &ProjectBundle{
		Project: &Project{
			ID:          projectID,
			OwnerID:     ownerID,
			Name:        title,
			Description: description,
		},
		Blueprint: &Blueprint{
			ID:        uuid.New(),
			ProjectID: projectID,
			Title:     BlueprintTitle(title),
			Content:   core,
		},
		UserFlow: &UserFlow{
			ID:        uuid.New(),
			ProjectID: projectID,
			Nodes:     nodes,
			Edges:     edges,
		},
		Kanban: &Kanban{
			ID:        uuid.New(),
			ProjectID: projectID,
			Columns:   columns,
		},
		MemoryBank: &MemoryBank{
			ID:        uuid.New(),
			ProjectID: projectID,
		},
	}
}
