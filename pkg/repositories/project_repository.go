package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/database"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// ProjectRepository defines the interface for project data access.
// Every read and delete is filtered by owner; a project owned by someone
// else is indistinguishable from one that does not exist.
type ProjectRepository interface {
	// CreateWithResources writes the project and its four sub-resources in one transaction.
	CreateWithResources(ctx context.Context, bundle *models.ProjectBundle) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error)
	GetByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct{}

// NewProjectRepository creates a new project repository.
func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

// CreateWithResources inserts the project, blueprint, user flow, kanban and
// memory bank of a bundle. Either all five rows are committed or none are.
func (r *projectRepository) CreateWithResources(ctx context.Context, bundle *models.ProjectBundle) error {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	content, err := json.Marshal(bundle.Blueprint.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal blueprint content: %w", err)
	}
	nodes, edges, err := marshalFlow(bundle.UserFlow)
	if err != nil {
		return err
	}
	board, err := marshalBoard(bundle.Kanban)
	if err != nil {
		return err
	}

	now := time.Now()
	bundle.Project.CreatedAt = now
	bundle.Project.UpdatedAt = now
	bundle.Blueprint.CreatedAt = now
	bundle.UserFlow.CreatedAt, bundle.UserFlow.UpdatedAt = now, now
	bundle.Kanban.CreatedAt, bundle.Kanban.UpdatedAt = now, now
	bundle.MemoryBank.CreatedAt, bundle.MemoryBank.UpdatedAt = now, now

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	p := bundle.Project
	_, err = tx.Exec(ctx, `
		INSERT INTO bp_projects (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	b := bundle.Blueprint
	_, err = tx.Exec(ctx, `
		INSERT INTO bp_blueprints (id, project_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, p.ID, b.Title, content, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert blueprint: %w", err)
	}

	f := bundle.UserFlow
	_, err = tx.Exec(ctx, `
		INSERT INTO bp_user_flows (id, project_id, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, p.ID, nodes, edges, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user flow: %w", err)
	}

	k := bundle.Kanban
	_, err = tx.Exec(ctx, `
		INSERT INTO bp_kanbans (id, project_id, board, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		k.ID, p.ID, board, k.CreatedAt, k.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert kanban: %w", err)
	}

	m := bundle.MemoryBank
	_, err = tx.Exec(ctx, `
		INSERT INTO bp_memory_banks (id, project_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, p.ID, m.Content, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert memory bank: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.Blueprint = b
	return nil
}

const projectWithBlueprintColumns = `
		p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
		b.id, b.title, b.content, b.created_at
	FROM bp_projects p
	LEFT JOIN bp_blueprints b ON b.project_id = p.id`

// ListByOwner returns the owner's projects newest first, each with its blueprint.
func (r *projectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `SELECT` + projectWithBlueprintColumns + `
	WHERE p.owner_id = $1
	ORDER BY p.created_at DESC, p.id`

	rows, err := scope.Conn.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProjectWithBlueprint(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// GetByOwner retrieves one project with its blueprint.
// Returns apperrors.ErrNotFound when the project is absent or owned by someone else.
func (r *projectRepository) GetByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `SELECT` + projectWithBlueprintColumns + `
	WHERE p.id = $1 AND p.owner_id = $2`

	project, err := scanProjectWithBlueprint(scope.Conn.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return project, nil
}

// Delete removes a project. Sub-resources are deleted via CASCADE.
func (r *projectRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM bp_projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanProjectWithBlueprint(row pgx.Row) (*models.Project, error) {
	var project models.Project
	var (
		blueprintID      *uuid.UUID
		blueprintTitle   *string
		blueprintContent []byte
		blueprintCreated *time.Time
	)

	err := row.Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
		&blueprintID,
		&blueprintTitle,
		&blueprintContent,
		&blueprintCreated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	if blueprintID != nil {
		blueprint := &models.Blueprint{
			ID:        *blueprintID,
			ProjectID: project.ID,
			Title:     *blueprintTitle,
			CreatedAt: *blueprintCreated,
		}
		if err := json.Unmarshal(blueprintContent, &blueprint.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal blueprint content: %w", err)
		}
		project.Blueprint = blueprint
	}

	return &project, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
