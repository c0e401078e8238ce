package mcp

import (
	"context"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
)

// AuditLogger records one structured log entry per MCP tool call.
type AuditLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an audit logger writing to logger.
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.Named("mcp-audit"),
	}
}

// Hooks returns the server hooks that feed the audit log.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(ctx context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	fields := a.baseFields(ctx, id, req)
	toolError := result != nil && result.IsError
	fields = append(fields, zap.Bool("was_successful", !toolError))
	if toolError {
		a.logger.Info("MCP tool returned error result", fields...)
		return
	}
	a.logger.Info("MCP tool call", fields...)
}

func (a *AuditLogger) onError(ctx context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}

	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	fields := a.baseFields(ctx, id, req)
	fields = append(fields, zap.Bool("was_successful", false), zap.Error(err))
	a.logger.Warn("MCP tool call failed", fields...)
}

func (a *AuditLogger) baseFields(ctx context.Context, id any, req *mcplib.CallToolRequest) []zap.Field {
	startTime := a.loadAndDeleteStart(id)
	fields := []zap.Field{
		zap.String("tool", req.Params.Name),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	}
	if userID := auth.GetUserIDFromContext(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if args := req.GetArguments(); args != nil {
		if pid, ok := args["project_id"].(string); ok {
			fields = append(fields, zap.String("project_id", pid))
		}
	}
	return fields
}

func (a *AuditLogger) loadAndDeleteStart(id any) time.Time {
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		return v.(time.Time)
	}
	return time.Now()
}
