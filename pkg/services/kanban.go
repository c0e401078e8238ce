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

// KanbanService reads and replaces a project's kanban board.
type KanbanService interface {
	// GetOrBootstrap returns the stored board. When none is stored it seeds
	// one from kanban data embedded in the blueprint, or returns an empty,
	// unsaved board. A project not owned by ownerID is apperrors.ErrNotFound.
	GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.Kanban, error)

	// Upsert replaces the board with columns, creating it if absent.
	// A nil columns map is apperrors.ErrInvalidInput; an empty one clears the board.
	Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, columns map[string]models.KanbanColumn) (*models.Kanban, error)
}

type kanbanService struct {
	projectRepo repositories.ProjectRepository
	kanbanRepo  repositories.KanbanRepository
	logger      *zap.Logger
}

// NewKanbanService creates a new kanban service.
func NewKanbanService(projectRepo repositories.ProjectRepository, kanbanRepo repositories.KanbanRepository, logger *zap.Logger) KanbanService {
	return &kanbanService{
		projectRepo: projectRepo,
		kanbanRepo:  kanbanRepo,
		logger:      logger.Named("kanban_service"),
	}
}

func (s *kanbanService) GetOrBootstrap(ctx context.Context, ownerID string, projectID uuid.UUID) (*models.Kanban, error) {
	project, err := s.projectRepo.GetByOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	kanban, err := s.kanbanRepo.GetByProject(ctx, projectID)
	if err == nil {
		return kanban, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get kanban: %w", err)
	}

	if columns, ok := s.embeddedColumns(project); ok {
		created, err := s.kanbanRepo.CreateIfAbsent(ctx, &models.Kanban{
			ID:        uuid.New(),
			ProjectID: projectID,
			Columns:   columns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to bootstrap kanban: %w", err)
		}
		s.logger.Info("Bootstrapped kanban from blueprint",
			zap.String("project_id", projectID.String()),
			zap.Int("columns", len(columns)))
		return created, nil
	}

	return &models.Kanban{ProjectID: projectID, Columns: map[string]models.KanbanColumn{}}, nil
}

// embeddedColumns returns the kanban columns carried by a blueprint written
// before the split, if they are present and well formed.
func (s *kanbanService) embeddedColumns(project *models.Project) (map[string]models.KanbanColumn, bool) {
	if project.Blueprint == nil {
		return nil, false
	}
	tickets := project.Blueprint.Content.KanbanTickets
	if tickets == nil || tickets.Columns == nil {
		return nil, false
	}
	if problems := models.CheckKanbanColumns(tickets.Columns, "kanban_tickets.columns"); len(problems) > 0 {
		s.logger.Warn("Ignoring malformed kanban data embedded in blueprint",
			zap.String("project_id", project.ID.String()),
			zap.Int("problems", len(problems)))
		return nil, false
	}
	return tickets.Columns, true
}

func (s *kanbanService) Upsert(ctx context.Context, ownerID string, projectID uuid.UUID, columns map[string]models.KanbanColumn) (*models.Kanban, error) {
	if columns == nil {
		return nil, fmt.Errorf("%w: columns is required", apperrors.ErrInvalidInput)
	}
	if problems := models.CheckKanbanColumns(columns, "columns"); len(problems) > 0 {
		return nil, invalidPayload(problems)
	}

	if _, err := s.projectRepo.GetByOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	kanban, err := s.kanbanRepo.Upsert(ctx, &models.Kanban{
		ID:        uuid.New(),
		ProjectID: projectID,
		Columns:   columns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save kanban: %w", err)
	}
	return kanban, nil
}

// Ensure kanbanService implements KanbanService at compile time.
var _ KanbanService = (*kanbanService)(nil)
