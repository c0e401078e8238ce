package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kanban is the stored kanban board of a project, keyed by column key
// (e.g. "backlog", "todo").
// A zero ID means the board has not been persisted yet.
type Kanban struct {
	ID        uuid.UUID               `json:"id"`
	ProjectID uuid.UUID               `json:"projectId"`
	Columns   map[string]KanbanColumn `json:"columns"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// KanbanColumn is a titled, ordered list of tickets.
type KanbanColumn struct {
	Title   string   `json:"title"`
	Tickets []Ticket `json:"tickets"`
}

// Ticket is a unit of work on the board.
// Priority is free-form; the LLM usually emits critical, high, medium or low.
type Ticket struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	StoryPoints float64  `json:"story_points"`
	Assignee    string   `json:"assignee,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// ColumnKeys returns the column keys in sorted order.
func ColumnKeys(columns map[string]KanbanColumn) []string {
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckKanbanColumns reports empty column keys and empty or duplicate ticket
// ids. Ticket ids must be unique across the whole board, not per column.
func CheckKanbanColumns(columns map[string]KanbanColumn, columnsPath string) []FieldProblem {
	var problems []FieldProblem
	seen := make(map[string]string)

	for _, key := range ColumnKeys(columns) {
		colPath := columnsPath + "." + key
		if key == "" {
			problems = append(problems, FieldProblem{Path: columnsPath, Reason: "column key must not be empty"})
		}
		for i, t := range columns[key].Tickets {
			path := fmt.Sprintf("%s.tickets[%d].id", colPath, i)
			if t.ID == "" {
				problems = append(problems, FieldProblem{Path: path, Reason: "must not be empty"})
				continue
			}
			if first, dup := seen[t.ID]; dup {
				problems = append(problems, FieldProblem{Path: path, Reason: fmt.Sprintf("duplicate ticket id %q (first used at %s)", t.ID, first)})
				continue
			}
			seen[t.ID] = path
		}
	}

	return problems
}
