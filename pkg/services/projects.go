package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/audit"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/cache"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/logging"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/repositories"
)

// CreatedProject is the outcome of a successful generation request.
type CreatedProject struct {
	Project *models.Project
	// Generated is the full validated blueprint, including the user flow and
	// kanban substructures that were split off for storage.
	Generated *models.BlueprintContent
}

// ProjectService defines the interface for project operations.
// Every method is scoped to ownerID; projects owned by someone else are
// reported as apperrors.ErrNotFound.
type ProjectService interface {
	// Create generates a blueprint from the idea and persists the project with
	// all of its sub-resources as one unit.
	Create(ctx context.Context, ownerID string, idea prompts.Idea) (*CreatedProject, error)

	// List returns the owner's projects, newest first, each with its blueprint.
	List(ctx context.Context, ownerID string) ([]*models.Project, error)

	// Get returns one project with its blueprint.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error)

	// Delete removes a project and, by cascade, its sub-resources.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// GetMemoryBank returns the project's memory bank.
	GetMemoryBank(ctx context.Context, ownerID string, id uuid.UUID) (*models.MemoryBank, error)
}

type projectService struct {
	projectRepo    repositories.ProjectRepository
	memoryBankRepo repositories.MemoryBankRepository
	generator      BlueprintGenerator
	cache          cache.ProjectCache
	auditor        *audit.SecurityAuditor
	logger         *zap.Logger
}

// NewProjectService creates a new project service.
// A nil cache disables read caching.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	memoryBankRepo repositories.MemoryBankRepository,
	generator BlueprintGenerator,
	projectCache cache.ProjectCache,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) ProjectService {
	if projectCache == nil {
		projectCache = cache.NoopProjectCache{}
	}
	return &projectService{
		projectRepo:    projectRepo,
		memoryBankRepo: memoryBankRepo,
		generator:      generator,
		cache:          projectCache,
		auditor:        auditor,
		logger:         logger.Named("project_service"),
	}
}

func (s *projectService) Create(ctx context.Context, ownerID string, idea prompts.Idea) (*CreatedProject, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	idea = idea.Normalize()
	if err := prompts.ValidateIdea(idea); err != nil {
		return nil, err
	}

	if hits := audit.ScreenFields(map[string]string{
		"projectTitle":       idea.Title,
		"projectDescription": idea.Description,
	}); len(hits) > 0 {
		s.auditor.LogInjectionAttempt(ctx, hits)
		return nil, fmt.Errorf("%w: %s contains disallowed content", apperrors.ErrInvalidInput, hits[0].Field)
	}

	generated, err := s.generator.Generate(ctx, ownerID, idea)
	if err != nil {
		return nil, err
	}

	bundle := models.NewProjectBundle(ownerID, idea.Title, idea.Description, generated)
	if err := s.projectRepo.CreateWithResources(ctx, bundle); err != nil {
		s.logger.Error("Failed to persist generated project",
			zap.String("owner_id", ownerID),
			zap.String("project_id", bundle.Project.ID.String()),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistenceFailed, err)
	}

	s.logger.Info("Project created",
		zap.String("owner_id", ownerID),
		zap.String("project_id", bundle.Project.ID.String()),
		zap.Int("flow_nodes", len(bundle.UserFlow.Nodes)),
		zap.Int("kanban_columns", len(bundle.Kanban.Columns)))

	return &CreatedProject{Project: bundle.Project, Generated: generated}, nil
}

func (s *projectService) List(ctx context.Context, ownerID string) ([]*models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	if project, ok := s.cache.Get(ctx, ownerID, id); ok {
		return project, nil
	}

	project, err := s.projectRepo.GetByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	s.cache.Set(ctx, project)
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID, id)
	s.auditor.LogProjectDeleted(ctx, id)
	return nil
}

func (s *projectService) GetMemoryBank(ctx context.Context, ownerID string, id uuid.UUID) (*models.MemoryBank, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}

	bank, err := s.memoryBankRepo.GetByProject(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get memory bank: %w", err)
	}
	return bank, nil
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
