// Package mcp exposes ekaya-blueprint projects to agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/mcp/tools"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "ekaya-blueprint"

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance.
// Extra options are appended after the defaults.
func NewServer(name, version string, logger *zap.Logger, opts ...server.ServerOption) *Server {
	base := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	}
	mcpServer := server.NewMCPServer(name, version, append(base, opts...)...)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// NewProjectServer creates a server with the health and project tools registered.
func NewProjectServer(version string, deps *tools.ProjectToolDeps, logger *zap.Logger) *Server {
	audit := NewAuditLogger(logger)
	s := NewServer(ServerName, version, logger, server.WithHooks(audit.Hooks()))
	tools.RegisterHealthTool(s.mcp, version)
	tools.RegisterProjectTools(s.mcp, deps)
	logger.Debug("MCP tools registered", zap.String("server", ServerName))
	return s
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
// Stateless mode: every POST is self-contained and runs with the request's
// context, which already carries the caller's claims and owner scope.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}
