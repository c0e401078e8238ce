package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// UpdateUserFlowRequest is the body of PUT /userflow/{pid}.
type UpdateUserFlowRequest struct {
	Nodes []models.FlowNode `json:"nodes"`
	Edges []models.FlowEdge `json:"edges"`
}

// UserFlowHandler serves a project's user flow diagram.
type UserFlowHandler struct {
	userFlowService services.UserFlowService
	logger          *zap.Logger
}

// NewUserFlowHandler creates a new user flow handler.
func NewUserFlowHandler(userFlowService services.UserFlowService, logger *zap.Logger) *UserFlowHandler {
	return &UserFlowHandler{
		userFlowService: userFlowService,
		logger:          logger,
	}
}

// RegisterRoutes registers the user flow handler's routes on the given mux.
func (h *UserFlowHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, ownerMiddleware OwnerMiddleware) {
	mux.HandleFunc("GET /userflow/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Get)))
	mux.HandleFunc("PUT /userflow/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Update)))
}

// Get handles GET /userflow/{pid}.
func (h *UserFlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "Get user flow")
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	flow, err := h.userFlowService.GetOrBootstrap(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err, h.logger, "Get user flow")
		return
	}

	if err := WriteData(w, http.StatusOK, flow); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Update handles PUT /userflow/{pid}.
// Replaces the whole diagram; nodes and edges are both required.
func (h *UserFlowHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "Update user flow")
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateUserFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	flow, err := h.userFlowService.Upsert(r.Context(), ownerID, projectID, req.Nodes, req.Edges)
	if err != nil {
		writeServiceError(w, err, h.logger, "Update user flow")
		return
	}

	if err := WriteData(w, http.StatusOK, flow); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
