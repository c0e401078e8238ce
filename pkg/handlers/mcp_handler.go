package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/mcp"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/middleware"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
	}
}

// RegisterRoutes registers the MCP endpoint behind authentication and the
// owner's database scope.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, ownerMiddleware OwnerMiddleware) {
	// Wrap the MCP HTTP server with middleware layers:
	// 1. MCP request/response logging (innermost - logs JSON-RPC details)
	// 2. Owner scope and authentication (validates JWT, acquires connection)
	// 3. Method check (outermost - rejects non-POST before auth)
	loggedHandler := middleware.MCPRequestLogger(h.logger)(h.httpServer)
	authHandler := authMiddleware.RequireAuth(ownerMiddleware(loggedHandler.ServeHTTP))
	methodCheckedHandler := h.requirePOST(authHandler)
	mux.Handle("/mcp", methodCheckedHandler)
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// MCP over HTTP Streaming requires POST for JSON-RPC requests.
func (h *MCPHandler) requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
