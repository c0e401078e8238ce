package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChecklistStatus is the progress state of a checklist item on a flow node.
type ChecklistStatus string

const (
	ChecklistDone       ChecklistStatus = "done"
	ChecklistInProgress ChecklistStatus = "in-progress"
	ChecklistPending    ChecklistStatus = "pending"
)

// ValidChecklistStatuses contains all valid checklist status values.
var ValidChecklistStatuses = []ChecklistStatus{ChecklistDone, ChecklistInProgress, ChecklistPending}

// IsValidChecklistStatus checks if the given status is valid.
func IsValidChecklistStatus(status ChecklistStatus) bool {
	for _, s := range ValidChecklistStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UserFlow is the stored user-flow diagram of a project.
// A zero ID means the flow has not been persisted yet.
type UserFlow struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"projectId"`
	Nodes     []FlowNode `json:"nodes"`
	Edges     []FlowEdge `json:"edges"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FlowNode is a step in the user flow.
type FlowNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position NodePosition `json:"position"`
	Data     NodeData     `json:"data"`
}

// NodePosition is the canvas position of a node.
type NodePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the visible content of a node.
type NodeData struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Checklist   []ChecklistItem `json:"checklist"`
}

// ChecklistItem is a sub-task of a flow node.
type ChecklistItem struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Status ChecklistStatus `json:"status"`
}

// FlowEdge connects two nodes by id.
type FlowEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated"`
}

// FieldProblem describes one structural problem at a dotted path.
type FieldProblem struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (p FieldProblem) String() string {
	return p.Path + ": " + p.Reason
}

// CheckFlowGraph reports empty or duplicate node ids, invalid checklist
// statuses and edges whose source or target is not a node of the graph.
// nodesPath and edgesPath prefix the reported paths.
func CheckFlowGraph(nodes []FlowNode, edges []FlowEdge, nodesPath, edgesPath string) []FieldProblem {
	var problems []FieldProblem
	ids := make(map[string]bool, len(nodes))

	for i, n := range nodes {
		path := fmt.Sprintf("%s[%d]", nodesPath, i)
		switch {
		case n.ID == "":
			problems = append(problems, FieldProblem{Path: path + ".id", Reason: "must not be empty"})
		case ids[n.ID]:
			problems = append(problems, FieldProblem{Path: path + ".id", Reason: fmt.Sprintf("duplicate node id %q", n.ID)})
		default:
			ids[n.ID] = true
		}
		for j, item := range n.Data.Checklist {
			if !IsValidChecklistStatus(item.Status) {
				problems = append(problems, FieldProblem{
					Path:   fmt.Sprintf("%s.data.checklist[%d].status", path, j),
					Reason: fmt.Sprintf("value %q is not one of %v", item.Status, ValidChecklistStatuses),
				})
			}
		}
	}

	for i, e := range edges {
		path := fmt.Sprintf("%s[%d]", edgesPath, i)
		if e.ID == "" {
			problems = append(problems, FieldProblem{Path: path + ".id", Reason: "must not be empty"})
		}
		if !ids[e.Source] {
			problems = append(problems, FieldProblem{Path: path + ".source", Reason: fmt.Sprintf("references unknown node %q", e.Source)})
		}
		if !ids[e.Target] {
			problems = append(problems, FieldProblem{Path: path + ".target", Reason: fmt.Sprintf("references unknown node %q", e.Target)})
		}
	}

	return problems
}
