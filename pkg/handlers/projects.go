package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/prompts"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// OwnerMiddleware scopes a request to the authenticated owner's connection.
type OwnerMiddleware func(http.HandlerFunc) http.HandlerFunc

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	ProjectTitle       string `json:"projectTitle"`
	ProjectDescription string `json:"projectDescription"`
}

// CreateProjectResponse is returned after a blueprint has been generated and saved.
type CreateProjectResponse struct {
	Project   *models.BlueprintContent `json:"project"`
	ProjectID uuid.UUID                `json:"projectId"`
}

// ProjectsHandler handles project generation, listing and retrieval.
type ProjectsHandler struct {
	projectService services.ProjectService
	exportService  services.ExportService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, exportService services.ExportService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		exportService:  exportService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, ownerMiddleware OwnerMiddleware) {
	mux.HandleFunc("POST /projects", authMiddleware.RequireAuth(ownerMiddleware(h.Create)))
	mux.HandleFunc("GET /projects", authMiddleware.RequireAuth(ownerMiddleware(h.List)))
	mux.HandleFunc("GET /projects/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Get)))
	mux.HandleFunc("DELETE /projects/{pid}", authMiddleware.RequireAuth(ownerMiddleware(h.Delete)))
	mux.HandleFunc("GET /projects/{pid}/export", authMiddleware.RequireAuth(ownerMiddleware(h.Export)))
	mux.HandleFunc("GET /projects/{pid}/memory-bank", authMiddleware.RequireAuth(ownerMiddleware(h.GetMemoryBank)))
}

// Create handles POST /projects.
// Generates a blueprint from the submitted idea and persists it with its
// user flow, kanban board and memory bank.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "Create project")
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	created, err := h.projectService.Create(r.Context(), ownerID, prompts.Idea{
		Title:       req.ProjectTitle,
		Description: req.ProjectDescription,
	})
	if err != nil {
		writeServiceError(w, err, h.logger, "Create project")
		return
	}

	h.logger.Info("Project created",
		zap.String("project_id", created.Project.ID.String()),
		zap.String("user_id", ownerID))

	resp := CreateProjectResponse{
		Project:   created.Generated,
		ProjectID: created.Project.ID,
	}
	if err := WriteData(w, http.StatusCreated, resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// List handles GET /projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "List projects")
		return
	}

	projects, err := h.projectService.List(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err, h.logger, "List projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	if err := WriteData(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Get handles GET /projects/{pid}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, projectID, ok := h.ownerAndProject(w, r, "Get project")
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err, h.logger, "Get project")
		return
	}

	if err := WriteData(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Delete handles DELETE /projects/{pid}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, projectID, ok := h.ownerAndProject(w, r, "Delete project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), ownerID, projectID); err != nil {
		writeServiceError(w, err, h.logger, "Delete project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Export handles GET /projects/{pid}/export.
// Responds with the whole project as a YAML attachment.
func (h *ProjectsHandler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, projectID, ok := h.ownerAndProject(w, r, "Export project")
	if !ok {
		return
	}

	doc, err := h.exportService.Export(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err, h.logger, "Export project")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "project-"+projectID.String()+".yaml"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("Failed to write export", zap.Error(err))
	}
}

// GetMemoryBank handles GET /projects/{pid}/memory-bank.
func (h *ProjectsHandler) GetMemoryBank(w http.ResponseWriter, r *http.Request) {
	ownerID, projectID, ok := h.ownerAndProject(w, r, "Get memory bank")
	if !ok {
		return
	}

	bank, err := h.projectService.GetMemoryBank(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err, h.logger, "Get memory bank")
		return
	}

	if err := WriteData(w, http.StatusOK, bank); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ownerAndProject resolves the caller and the {pid} path value, writing the
// error response itself when either is missing.
func (h *ProjectsHandler) ownerAndProject(w http.ResponseWriter, r *http.Request, action string) (string, uuid.UUID, bool) {
	ownerID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, action)
		return "", uuid.Nil, false
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return "", uuid.Nil, false
	}
	return ownerID, projectID, true
}
