// Package models contains domain types for ekaya-blueprint.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a user's idea together with everything generated from it.
// OwnerID is the JWT subject of the user who created it.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Blueprint   *Blueprint `json:"blueprint,omitempty"`
}

// Blueprint is the generated plan for a project, minus the user flow and
// kanban substructures which live in their own tables.
// It is written once at generation time and never updated.
type Blueprint struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"projectId"`
	Title     string           `json:"title"`
	Content   BlueprintContent `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
}

// BlueprintTitle returns the title stored on a project's blueprint.
func BlueprintTitle(projectTitle string) string {
	return projectTitle + " Blueprint"
}

// MemoryBank holds free-text notes for a project. It is created empty and
// filled in by processes outside the generation pipeline.
type MemoryBank struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
