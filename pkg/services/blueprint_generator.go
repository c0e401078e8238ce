package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/llm"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/logging"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/schema"
)

// DefaultGenerationTimeout bounds a single blueprint generation call.
const DefaultGenerationTimeout = 60 * time.Second

// BlueprintGenerator turns a project idea into validated blueprint content.
type BlueprintGenerator interface {
	// Generate makes exactly one provider call. Errors wrap
	// apperrors.ErrInvalidInput, ErrGenerationTimeout or ErrGenerationFailed.
	Generate(ctx context.Context, ownerID string, idea prompts.Idea) (*models.BlueprintContent, error)
}

type blueprintGenerator struct {
	generator llm.StructuredGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewBlueprintGenerator creates a BlueprintGenerator.
// A non-positive timeout falls back to DefaultGenerationTimeout.
func NewBlueprintGenerator(generator llm.StructuredGenerator, timeout time.Duration, logger *zap.Logger) BlueprintGenerator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &blueprintGenerator{
		generator: generator,
		timeout:   timeout,
		logger:    logger.Named("blueprint_generator"),
	}
}

func (g *blueprintGenerator) Generate(ctx context.Context, ownerID string, idea prompts.Idea) (*models.BlueprintContent, error) {
	idea = idea.Normalize()
	if err := prompts.ValidateIdea(idea); err != nil {
		return nil, err
	}

	ctx = llm.WithGenerationContext(ctx, ownerID, idea.Title)
	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &llm.StructuredRequest{
		SystemMessage:     prompts.BlueprintSystemMessage(),
		Prompt:            prompts.BuildBlueprintPrompt(idea),
		SchemaName:        schema.BlueprintSchemaName,
		SchemaDescription: "A complete SaaS blueprint for the described project idea",
		Schema:            schema.BlueprintSchema(),
	}

	start := time.Now()
	result, err := g.generator.GenerateStructured(genCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			g.logger.Warn("Blueprint generation timed out",
				zap.String("owner_id", ownerID),
				zap.Duration("timeout", g.timeout),
				zap.String("model", g.generator.GetModel()))
			return nil, fmt.Errorf("%w after %s", apperrors.ErrGenerationTimeout, g.timeout)
		}
		g.logger.Error("Blueprint generation failed",
			zap.String("owner_id", ownerID),
			zap.String("provider", g.generator.GetProvider()),
			zap.String("model", g.generator.GetModel()),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("%w: provider call failed", apperrors.ErrGenerationFailed)
	}

	content, err := schema.ValidateJSON(result.Content)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			g.logger.Error("Generated blueprint failed schema validation",
				zap.String("owner_id", ownerID),
				zap.String("model", result.Model),
				zap.Int("violations", len(verr.Violations)),
				zap.Strings("paths", verr.Paths()),
				zap.String("content", logging.SanitizeContent(string(result.Content))))
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrGenerationFailed, err)
	}

	g.logger.Info("Blueprint generated",
		zap.String("owner_id", ownerID),
		zap.String("model", result.Model),
		zap.Int("total_tokens", result.TotalTokens),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}

// Ensure blueprintGenerator implements BlueprintGenerator at compile time.
var _ BlueprintGenerator = (*blueprintGenerator)(nil)
