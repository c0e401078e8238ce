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

// KanbanRepository defines the interface for kanban board data access.
// Callers verify project ownership before using it.
type KanbanRepository interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Kanban, error)
	// CreateIfAbsent inserts the board unless the project already has one and
	// returns whichever row is stored afterwards.
	CreateIfAbsent(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error)
	// Upsert replaces the project's board, creating it if absent.
	Upsert(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error)
}

type kanbanRepository struct{}

// NewKanbanRepository creates a new kanban repository.
func NewKanbanRepository() KanbanRepository {
	return &kanbanRepository{}
}

// GetByProject returns apperrors.ErrNotFound when the project has no board yet.
func (r *kanbanRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Kanban, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT id, project_id, board, created_at, updated_at
		FROM bp_kanbans
		WHERE project_id = $1`

	var kanban models.Kanban
	var board []byte
	err := scope.Conn.QueryRow(ctx, query, projectID).Scan(
		&kanban.ID,
		&kanban.ProjectID,
		&board,
		&kanban.CreatedAt,
		&kanban.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get kanban: %w", err)
	}

	if err := json.Unmarshal(board, &kanban.Columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kanban board: %w", err)
	}
	if kanban.Columns == nil {
		kanban.Columns = map[string]models.KanbanColumn{}
	}

	return &kanban, nil
}

func (r *kanbanRepository) CreateIfAbsent(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	board, err := marshalBoard(kanban)
	if err != nil {
		return nil, err
	}
	if kanban.ID == uuid.Nil {
		kanban.ID = uuid.New()
	}
	now := time.Now()

	_, err = scope.Conn.Exec(ctx, `
		INSERT INTO bp_kanbans (id, project_id, board, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (project_id) DO NOTHING`,
		kanban.ID, kanban.ProjectID, board, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create kanban: %w", err)
	}

	return r.GetByProject(ctx, kanban.ProjectID)
}

func (r *kanbanRepository) Upsert(ctx context.Context, kanban *models.Kanban) (*models.Kanban, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	board, err := marshalBoard(kanban)
	if err != nil {
		return nil, err
	}
	if kanban.ID == uuid.Nil {
		kanban.ID = uuid.New()
	}
	now := time.Now()

	query := `
		INSERT INTO bp_kanbans (id, project_id, board, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (project_id) DO UPDATE
		SET board = EXCLUDED.board,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	stored := &models.Kanban{ProjectID: kanban.ProjectID, Columns: kanban.Columns}
	err = scope.Conn.QueryRow(ctx, query, kanban.ID, kanban.ProjectID, board, now).
		Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert kanban: %w", err)
	}
	if stored.Columns == nil {
		stored.Columns = map[string]models.KanbanColumn{}
	}

	return stored, nil
}

func marshalBoard(kanban *models.Kanban) ([]byte, error) {
	columns := kanban.Columns
	if columns == nil {
		columns = map[string]models.KanbanColumn{}
	}
	board, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal kanban board: %w", err)
	}
	return board, nil
}

var _ KanbanRepository = (*kanbanRepository)(nil)
