package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/database"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// MemoryBankRepository reads project memory banks. Writes happen only as
// part of ProjectRepository.CreateWithResources.
type MemoryBankRepository interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.MemoryBank, error)
}

type memoryBankRepository struct{}

// NewMemoryBankRepository creates a new memory bank repository.
func NewMemoryBankRepository() MemoryBankRepository {
	return &memoryBankRepository{}
}

func (r *memoryBankRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.MemoryBank, error) {
	scope, ok := database.GetOwnerScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT id, project_id, content, created_at, updated_at
		FROM bp_memory_banks
		WHERE project_id = $1`

	var bank models.MemoryBank
	err := scope.Conn.QueryRow(ctx, query, projectID).Scan(
		&bank.ID,
		&bank.ProjectID,
		&bank.Content,
		&bank.CreatedAt,
		&bank.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get memory bank: %w", err)
	}

	return &bank, nil
}

var _ MemoryBankRepository = (*memoryBankRepository)(nil)
