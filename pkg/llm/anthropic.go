package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicGenerator requests structured output from the Anthropic Messages
// API by forcing a single tool call whose input schema is the target schema.
type AnthropicGenerator struct {
	client      *anthropic.Client
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewAnthropicGenerator creates a generator for the Anthropic Messages API.
func NewAnthropicGenerator(cfg *Config, logger *zap.Logger) (*AnthropicGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var opts []anthropic.ClientOption
	endpoint := "https://api.anthropic.com/v1"
	if cfg.BaseURL != "" {
		endpoint = strings.TrimSuffix(cfg.BaseURL, "/")
		opts = append(opts, anthropic.WithBaseURL(endpoint))
	}

	return &AnthropicGenerator{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		endpoint:    endpoint,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.Named("llm.anthropic"),
	}, nil
}

// GenerateStructured issues one Messages call with tool_choice pinned to the schema tool.
// If the model answers in text instead, the first JSON object in the text is used.
func (g *AnthropicGenerator) GenerateStructured(ctx context.Context, req *StructuredRequest) (*StructuredResult, error) {
	temperature := float32(g.temperature)
	prompt := req.Prompt

	logFields := append(contextFields(ctx),
		zap.String("model", g.model),
		zap.String("schema", req.SchemaName),
		zap.Int("prompt_len", len(prompt)))
	g.logger.Debug("LLM request", logFields...)

	start := time.Now()

	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		System:      req.SystemMessage,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
		Tools: []anthropic.ToolDefinition{
			{
				Name:        req.SchemaName,
				Description: req.SchemaDescription,
				InputSchema: req.Schema,
			},
		},
		ToolChoice: &anthropic.ToolChoice{Type: "tool", Name: req.SchemaName},
	})
	if err != nil {
		g.logger.Error("LLM request failed",
			append(logFields, zap.Duration("elapsed", time.Since(start)), zap.Error(err))...)
		return nil, g.parseError(err)
	}

	if resp.StopReason == anthropic.MessagesStopReasonMaxTokens {
		return nil, g.newResponseError("response truncated at max tokens", nil)
	}

	content, err := g.extractContent(resp, req.SchemaName)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	promptTokens := resp.Usage.InputTokens
	completionTokens := resp.Usage.OutputTokens

	g.logger.Info("LLM request completed",
		append(logFields,
			zap.Int("prompt_tokens", promptTokens),
			zap.Int("completion_tokens", completionTokens),
			zap.Duration("elapsed", elapsed))...)

	return &StructuredResult{
		Content:          content,
		Model:            string(resp.Model),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Elapsed:          elapsed,
	}, nil
}

func (g *AnthropicGenerator) extractContent(resp anthropic.MessagesResponse, toolName string) (json.RawMessage, error) {
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeToolUse && block.MessageContentToolUse != nil &&
			block.MessageContentToolUse.Name == toolName {
			if !json.Valid(block.MessageContentToolUse.Input) {
				return nil, g.newResponseError("tool input is not valid JSON", nil)
			}
			return block.MessageContentToolUse.Input, nil
		}
	}

	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			content, err := ExtractJSONObject(*block.Text)
			if err != nil {
				return nil, g.newResponseError("unparseable response", err)
			}
			return content, nil
		}
	}

	return nil, g.newResponseError("no tool call or text in response", nil)
}

// GetModel returns the configured model name.
func (g *AnthropicGenerator) GetModel() string {
	return g.model
}

// GetProvider returns ProviderAnthropic.
func (g *AnthropicGenerator) GetProvider() string {
	return ProviderAnthropic
}

func (g *AnthropicGenerator) newResponseError(msg string, cause error) *Error {
	return &Error{
		Type:     ErrorTypeResponse,
		Message:  msg,
		Cause:    cause,
		Model:    g.model,
		Endpoint: g.endpoint,
	}
}

func (g *AnthropicGenerator) parseError(err error) error {
	llmErr := ClassifyError(err)
	llmErr.Model = g.model
	llmErr.Endpoint = g.endpoint
	return llmErr
}
