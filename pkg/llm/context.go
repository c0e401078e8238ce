package llm

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	llmContextKey contextKey = "llm_context"
)

// WithContext returns a context carrying request metadata that generators
// attach to their log lines. The map is merged with any existing metadata.
func WithContext(ctx context.Context, values map[string]any) context.Context {
	existing := GetContext(ctx)
	if existing == nil {
		existing = make(map[string]any)
	}
	for k, v := range values {
		existing[k] = v
	}
	return context.WithValue(ctx, llmContextKey, existing)
}

// GetContext retrieves the metadata from context, if present.
func GetContext(ctx context.Context) map[string]any {
	if c, ok := ctx.Value(llmContextKey).(map[string]any); ok {
		// Return a copy to prevent mutation
		copy := make(map[string]any, len(c))
		for k, v := range c {
			copy[k] = v
		}
		return copy
	}
	return nil
}

// WithGenerationContext tags a context with the owner and project title of a
// blueprint request.
func WithGenerationContext(ctx context.Context, ownerID, projectTitle string) context.Context {
	values := map[string]any{
		"owner_id": ownerID,
	}
	if projectTitle != "" {
		values["project_title"] = projectTitle
	}
	return WithContext(ctx, values)
}

// contextFields converts the metadata to zap fields.
func contextFields(ctx context.Context) []zap.Field {
	values := GetContext(ctx)
	fields := make([]zap.Field, 0, len(values))
	for k, v := range values {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}
