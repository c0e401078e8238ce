package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator requests JSON-schema constrained chat completions from
// OpenAI or any OpenAI-compatible endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewOpenAIGenerator creates a generator for OpenAI-compatible endpoints.
func NewOpenAIGenerator(cfg *Config, logger *zap.Logger) (*OpenAIGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientConfig),
		endpoint:    clientConfig.BaseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.Named("llm.openai"),
	}, nil
}

// GenerateStructured issues one chat completion with a json_schema response format.
func (g *OpenAIGenerator) GenerateStructured(ctx context.Context, req *StructuredRequest) (*StructuredResult, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.SystemMessage},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	logFields := append(contextFields(ctx),
		zap.String("model", g.model),
		zap.String("schema", req.SchemaName),
		zap.Int("prompt_len", len(req.Prompt)))
	g.logger.Debug("LLM request", logFields...)

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: float32(g.temperature),
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.SchemaName,
				Description: req.SchemaDescription,
				Schema:      req.Schema,
				// Strict mode rejects optional properties and open maps.
				Strict: false,
			},
		},
	})
	if err != nil {
		g.logger.Error("LLM request failed",
			append(logFields, zap.Duration("elapsed", time.Since(start)), zap.Error(err))...)
		return nil, g.parseError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, g.newResponseError("no choices in response", nil)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, g.newResponseError("response truncated at max tokens", nil)
	}
	if choice.Message.Refusal != "" {
		return nil, g.newResponseError("model refused: "+choice.Message.Refusal, nil)
	}

	content, err := ExtractJSONObject(choice.Message.Content)
	if err != nil {
		return nil, g.newResponseError("unparseable response", err)
	}

	elapsed := time.Since(start)

	g.logger.Info("LLM request completed",
		append(logFields,
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Duration("elapsed", elapsed))...)

	return &StructuredResult{
		Content:          content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Elapsed:          elapsed,
	}, nil
}

// GetModel returns the configured model name.
func (g *OpenAIGenerator) GetModel() string {
	return g.model
}

// GetProvider returns ProviderOpenAI.
func (g *OpenAIGenerator) GetProvider() string {
	return ProviderOpenAI
}

func (g *OpenAIGenerator) newResponseError(msg string, cause error) *Error {
	return &Error{
		Type:     ErrorTypeResponse,
		Message:  msg,
		Cause:    cause,
		Model:    g.model,
		Endpoint: g.endpoint,
	}
}

// parseError categorizes OpenAI API errors using the structured Error type.
func (g *OpenAIGenerator) parseError(err error) error {
	llmErr := ClassifyError(err)
	llmErr.Model = g.model
	llmErr.Endpoint = g.endpoint
	return llmErr
}
