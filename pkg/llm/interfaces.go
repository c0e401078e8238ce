// Package llm talks to hosted LLM providers and returns schema-constrained
// JSON documents.
package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// StructuredRequest asks a provider for one JSON document matching Schema.
type StructuredRequest struct {
	SystemMessage     string
	Prompt            string
	SchemaName        string
	SchemaDescription string
	Schema            *jsonschema.Definition
}

// StructuredResult is the raw JSON the provider produced plus usage stats.
// Content is syntactically valid JSON but has not been checked against the schema.
type StructuredResult struct {
	Content          json.RawMessage
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Elapsed          time.Duration
}

// StructuredGenerator defines the interface for schema-constrained generation.
// Implementations make exactly one outbound call per invocation and never retry.
// Use this interface for dependency injection to enable mocking in tests.
type StructuredGenerator interface {
	// GenerateStructured requests a JSON document constrained by req.Schema.
	GenerateStructured(ctx context.Context, req *StructuredRequest) (*StructuredResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider name.
	GetProvider() string
}

// Ensure generators implement StructuredGenerator at compile time.
var (
	_ StructuredGenerator = (*OpenAIGenerator)(nil)
	_ StructuredGenerator = (*AnthropicGenerator)(nil)
)
