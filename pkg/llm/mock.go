package llm

import (
	"context"
	"encoding/json"
)

// MockStructuredGenerator is a configurable mock for testing generation.
// Set the function field to control behavior in tests.
type MockStructuredGenerator struct {
	// GenerateStructuredFunc is called when GenerateStructured is invoked.
	// If nil, returns Content as the result.
	GenerateStructuredFunc func(ctx context.Context, req *StructuredRequest) (*StructuredResult, error)

	// Content is returned when GenerateStructuredFunc is nil. Defaults to "{}".
	Content json.RawMessage

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	GenerateStructuredCalls int
	LastRequest             *StructuredRequest
}

// NewMockStructuredGenerator creates a mock that returns content on every call.
func NewMockStructuredGenerator(content json.RawMessage) *MockStructuredGenerator {
	return &MockStructuredGenerator{
		Content: content,
		Model:   "mock-model",
	}
}

// GenerateStructured implements StructuredGenerator.
func (m *MockStructuredGenerator) GenerateStructured(ctx context.Context, req *StructuredRequest) (*StructuredResult, error) {
	m.GenerateStructuredCalls++
	m.LastRequest = req
	if m.GenerateStructuredFunc != nil {
		return m.GenerateStructuredFunc(ctx, req)
	}
	content := m.Content
	if content == nil {
		content = json.RawMessage(`{}`)
	}
	return &StructuredResult{Content: content, Model: m.GetModel()}, nil
}

// GetModel implements StructuredGenerator.
func (m *MockStructuredGenerator) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetProvider implements StructuredGenerator.
func (m *MockStructuredGenerator) GetProvider() string {
	return "mock"
}

// Reset clears call tracking.
func (m *MockStructuredGenerator) Reset() {
	m.GenerateStructuredCalls = 0
	m.LastRequest = nil
}

// Ensure MockStructuredGenerator implements StructuredGenerator at compile time.
var _ StructuredGenerator = (*MockStructuredGenerator)(nil)
