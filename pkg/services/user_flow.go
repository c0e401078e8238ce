package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/repositories"
)

// UserFlowService reads and replaces a project's user-flow diagram.
// It mirrors KanbanService.
type UserFlowService interface {
	GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.UserFlow, error)
	// Upsert replaces the diagram. nodes and edges must both be non-nil.
	Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, nodes []models.FlowNode, edges []models.FlowEdge) (*models.UserFlow, error)
}

type userFlowService struct {
	projectRepo  repositories.ProjectRepository
	userFlowRepo repositories.UserFlowRepository
	logger       *zap.Logger
}

// NewUserFlowService creates a new user-flow service.
func NewUserFlowService(projectRepo repositories.ProjectRepository, userFlowRepo repositories.UserFlowRepository, logger *zap.Logger) UserFlowService {
	return &userFlowService{
		projectRepo:  projectRepo,
		userFlowRepo: userFlowRepo,
		logger:       logger.Named("user_flow_service"),
	}
}

func (s *userFlowService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.UserFlow, error) {
	project, err := s.projectRepo.GetByOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	flow, err := s.userFlowRepo.GetByProject(ctx, projectID)
	if err == nil {
		return flow, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user flow: %w", err)
	}

	if nodes, edges, ok := s.embeddedDiagram(project); ok {
		created, err := s.userFlowRepo.CreateIfAbsent(ctx, &models.UserFlow{
			ID:        uuid.New(),
			ProjectID: projectID,
			Nodes:     nodes,
			Edges:     edges,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to bootstrap user flow: %w", err)
		}
		s.logger.Info("Bootstrapped user flow from blueprint",
			zap.String("project_id", projectID.String()),
			zap.Int("nodes", len(nodes)),
			zap.Int("edges", len(edges)))
		return created, nil
	}

	return &models.UserFlow{ProjectID: projectID, Nodes: []models.FlowNode{}, Edges: []models.FlowEdge{}}, nil
}

func (s *userFlowService) embeddedDiagram(project *models.Project) ([]models.FlowNode, []models.FlowEdge, bool) {
	if project.Blueprint == nil || project.Blueprint.Content.UserFlowDiagram == nil {
		return nil, nil, false
	}
	diagram := project.Blueprint.Content.UserFlowDiagram
	nodes, edges := diagram.InitialNodes, diagram.InitialEdges
	if nodes == nil {
		nodes = []models.FlowNode{}
	}
	if edges == nil {
		edges = []models.FlowEdge{}
	}
	if problems := models.CheckFlowGraph(nodes, edges, "user_flow_diagram.initialNodes", "user_flow_diagram.initialEdges"); len(problems) > 0 {
		s.logger.Warn("Ignoring malformed user flow embedded in blueprint",
			zap.String("project_id", project.ID.String()),
			zap.Int("problems", len(problems)))
		return nil, nil, false
	}
	return nodes, edges, true
}

func (s *userFlowService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, nodes []models.FlowNode, edges []models.FlowEdge) (*models.UserFlow, error) {
	if nodes == nil {
		return nil, fmt.Errorf("%w: nodes is required", apperrors.ErrInvalidInput)
	}
	if edges == nil {
		return nil, fmt.Errorf("%w: edges is required", apperrors.ErrInvalidInput)
	}
	if problems := models.CheckFlowGraph(nodes, edges, "nodes", "edges"); len(problems) > 0 {
		return nil, invalidPayload(problems)
	}

	if _, err := s.projectRepo.GetByOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	flow, err := s.userFlowRepo.Upsert(ctx, &models.UserFlow{
		ID:        uuid.New(),
		ProjectID: projectID,
		Nodes:     nodes,
		Edges:     edges,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user flow: %w", err)
	}
	return flow, nil
}

// Ensure userFlowService implements UserFlowService at compile time.
var _ UserFlowService = (*userFlowService)(nil)
