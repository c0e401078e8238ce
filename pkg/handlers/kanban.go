package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// UpdateKanbanRequest is the body of PUT /kanban/{pid}.
type UpdateKanbanRequest struct {
	Columns map[string]models.KanbanColumn `json:"columns"`
}

// KanbanHandler serves a project's kanban board.
type KanbanHandler struct {
	kanbanService services.KanbanService
	logger        *zap.Logger
}

// NewKanbanHandler creates a new kanban handler.
func NewKanbanHandler(kanbanService services.KanbanService, logger *zap.Logger) *KanbanHandler {
	return &KanbanHandler{
		kanbanService: kanbanService,
		logger:        logger,
	}
}

// RegisterRoutes registers the kanban handler's routes on the given mux.
func (h *KanbanHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, ownerMiddleware OwnerMiddleware) {
	mux.HandleFunc("GET /kanban/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Get)))
	mux.HandleFunc("PUT /kanban/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Update)))
}

// Get handles GET /kanban/{pid}.
// Returns the stored board, bootstrapping it from the blueprint on first read.
func (h *KanbanHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "Get kanban")
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	board, err := h.kanbanService.GetOrBootstrap(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err, h.logger, "Get kanban")
		return
	}

	if err := WriteData(w, http.StatusOK, board); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Update handles PUT /kanban/{pid}.
func (h *KanbanHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "Update kanban")
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateKanbanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	board, err := h.kanbanService.Upsert(r.Context(), ownerID, projectID, req.Columns)
	if err != nil {
		writeServiceError(w, err, h.logger, "Update kanban")
		return
	}

	if err := WriteData(w, http.StatusOK, board); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
