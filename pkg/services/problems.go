package services

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// invalidPayload turns structural problems into an ErrInvalidInput error
// naming every offending path.
func invalidPayload(problems []models.FieldProblem) error {
	parts := make([]string, len(problems))
	for i, p := range problems {
		parts[i] = p.String()
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(parts, "; "))
}
