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

// UserFlowRepository defines the interface for user-flow data access.
// Callers verify project ownership before using it.
type UserFlowRepository interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.UserFlow, error)
	CreateIfAbsent(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error)
	Upsert(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error)
}

type userFlowRepository struct{}

// NewUserFlowRepository creates a new user-flow repository.
func NewUserFlowRepository() UserFlowRepository {
	return &userFlowRepository{}
}

func (r *userFlowRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.UserFlow, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT id, project_id, nodes, edges, created_at, updated_at
		FROM bp_user_flows
		WHERE project_id = $1`

	var flow models.UserFlow
	var nodes, edges []byte
	err := scope.Conn.QueryRow(ctx, query, projectID).Scan(
		&flow.ID,
		&flow.ProjectID,
		&nodes,
		&edges,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user flow: %w", err)
	}

	if err := json.Unmarshal(nodes, &flow.Nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user flow nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &flow.Edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user flow edges: %w", err)
	}
	normalizeFlow(&flow)

	return &flow, nil
}

func (r *userFlowRepository) CreateIfAbsent(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	nodes, edges, err := marshalFlow(flow)
	if err != nil {
		return nil, err
	}
	if flow.ID == uuid.Nil {
		flow.ID = uuid.New()
	}
	now := time.Now()

	_, err = scope.Conn.Exec(ctx, `
		INSERT INTO bp_user_flows (id, project_id, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (project_id) DO NOTHING`,
		flow.ID, flow.ProjectID, nodes, edges, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user flow: %w", err)
	}

	return r.GetByProject(ctx, flow.ProjectID)
}

func (r *userFlowRepository) Upsert(ctx context.Context, flow *models.UserFlow) (*models.UserFlow, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	nodes, edges, err := marshalFlow(flow)
	if err != nil {
		return nil, err
	}
	if flow.ID == uuid.Nil {
		flow.ID = uuid.New()
	}
	now := time.Now()

	query := `
		INSERT INTO bp_user_flows (id, project_id, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (project_id) DO UPDATE
		SET nodes = EXCLUDED.nodes,
		    edges = EXCLUDED.edges,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	stored := &models.UserFlow{ProjectID: flow.ProjectID, Nodes: flow.Nodes, Edges: flow.Edges}
	err = scope.Conn.QueryRow(ctx, query, flow.ID, flow.ProjectID, nodes, edges, now).
		Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user flow: %w", err)
	}
	normalizeFlow(stored)

	return stored, nil
}

func normalizeFlow(flow *models.UserFlow) {
	if flow.Nodes == nil {
		flow.Nodes = []models.FlowNode{}
	}
	if flow.Edges == nil {
		flow.Edges = []models.FlowEdge{}
	}
}

func marshalFlow(flow *models.UserFlow) (nodes, edges []byte, err error) {
	normalized := *flow
	normalizeFlow(&normalized)

	nodes, err = json.Marshal(normalized.Nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal user flow nodes: %w", err)
	}
	edges, err = json.Marshal(normalized.Edges)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal user flow edges: %w", err)
	}
	return nodes, edges, nil
}

var _ UserFlowRepository = (*userFlowRepository)(nil)
