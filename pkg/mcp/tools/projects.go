// Package tools provides the MCP tools exposed by ekaya-blueprint.
// Every tool is read-only and scoped to the authenticated owner.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/services"
)

// ProjectToolDeps contains dependencies for project tools.
type ProjectToolDeps struct {
	ProjectService  services.ProjectService
	KanbanService   services.KanbanService
	UserFlowService services.UserFlowService
	Logger          *zap.Logger
}

// RegisterProjectTools registers the project read tools.
func RegisterProjectTools(s *server.MCPServer, deps *ProjectToolDeps) {
	registerListProjectsTool(s, deps)
	registerGetBlueprintTool(s, deps)
	registerGetKanbanTool(s, deps)
	registerGetUserFlowTool(s, deps)
	registerGetMemoryBankTool(s, deps)
}

// projectSummary is the list_projects entry; the blueprint itself is omitted.
type projectSummary struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func readOnlyTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	base := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
	return mcp.NewTool(name, append(base, opts...)...)
}

func projectIDParam() mcp.ToolOption {
	return mcp.WithString(
		"project_id",
		mcp.Required(),
		mcp.Description("Project UUID as returned by list_projects"),
	)
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failure turns err into a structured result when the caller can act on it,
// and into a Go error otherwise.
func failure(deps *ProjectToolDeps, toolName string, err error) (*mcp.CallToolResult, error) {
	if result := serviceErrorResult(err); result != nil {
		deps.Logger.Debug("Tool input error",
			zap.String("tool", toolName),
			zap.Error(err))
		return result, nil
	}
	deps.Logger.Error("Tool failed",
		zap.String("tool", toolName),
		zap.Error(err))
	return nil, fmt.Errorf("%s failed: %w", toolName, err)
}

func registerListProjectsTool(s *server.MCPServer, deps *ProjectToolDeps) {
	tool := readOnlyTool(
		"list_projects",
		"List the caller's SaaS blueprint projects, newest first. "+
			"Returns project ids, names and descriptions. "+
			"Use get_blueprint with a project_id to read the full blueprint.",
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID, err := auth.RequireUserIDFromContext(ctx)
		if err != nil {
			return failure(deps, "list_projects", err)
		}

		projects, err := deps.ProjectService.List(ctx, ownerID)
		if err != nil {
			return failure(deps, "list_projects", err)
		}

		result := struct {
			Projects []projectSummary `json:"projects"`
			Count    int              `json:"count"`
		}{
			Projects: make([]projectSummary, 0, len(projects)),
			Count:    len(projects),
		}
		for _, p := range projects {
			result.Projects = append(result.Projects, projectSummary{
				ProjectID:   p.ID.String(),
				Name:        p.Name,
				Description: p.Description,
				CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		return jsonResult(result)
	})
}

func registerGetBlueprintTool(s *server.MCPServer, deps *ProjectToolDeps) {
	tool := readOnlyTool(
		"get_blueprint",
		"Get the generated blueprint of a project: platform pitch, market feasibility, "+
			"core features, technical requirements, revenue model and pricing plans.",
		projectIDParam(),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID, err := auth.RequireUserIDFromContext(ctx)
		if err != nil {
			return failure(deps, "get_blueprint", err)
		}
		projectID, errResult := requireProjectID(req)
		if errResult != nil {
			return errResult, nil
		}

		project, err := deps.ProjectService.Get(ctx, ownerID, projectID)
		if err != nil {
			return failure(deps, "get_blueprint", err)
		}

		var content *models.BlueprintContent
		if project.Blueprint != nil {
			content = &project.Blueprint.Content
		}
		return jsonResult(struct {
			ProjectID string                   `json:"project_id"`
			Name      string                   `json:"name"`
			Blueprint *models.BlueprintContent `json:"blueprint"`
		}{
			ProjectID: project.ID.String(),
			Name:      project.Name,
			Blueprint: content,
		})
	})
}

func registerGetKanbanTool(s *server.MCPServer, deps *ProjectToolDeps) {
	tool := readOnlyTool(
		"get_kanban",
		"Get a project's kanban board: columns keyed by id, each with its tickets.",
		projectIDParam(),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID, err := auth.RequireUserIDFromContext(ctx)
		if err != nil {
			return failure(deps, "get_kanban", err)
		}
		projectID, errResult := requireProjectID(req)
		if errResult != nil {
			return errResult, nil
		}

		board, err := deps.KanbanService.GetOrBootstrap(ctx, ownerID, projectID)
		if err != nil {
			return failure(deps, "get_kanban", err)
		}
		return jsonResult(board)
	})
}

func registerGetUserFlowTool(s *server.MCPServer, deps *ProjectToolDeps) {
	tool := readOnlyTool(
		"get_user_flow",
		"Get a project's user flow diagram as nodes and edges. "+
			"Each node carries a checklist of implementation steps.",
		projectIDParam(),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID, err := auth.RequireUserIDFromContext(ctx)
		if err != nil {
			return failure(deps, "get_user_flow", err)
		}
		projectID, errResult := requireProjectID(req)
		if errResult != nil {
			return errResult, nil
		}

		flow, err := deps.UserFlowService.GetOrBootstrap(ctx, ownerID, projectID)
		if err != nil {
			return failure(deps, "get_user_flow", err)
		}
		return jsonResult(flow)
	})
}

func registerGetMemoryBankTool(s *server.MCPServer, deps *ProjectToolDeps) {
	tool := readOnlyTool(
		"get_memory_bank",
		"Get a project's memory bank: free-form notes kept alongside the blueprint.",
		projectIDParam(),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID, err := auth.RequireUserIDFromContext(ctx)
		if err != nil {
			return failure(deps, "get_memory_bank", err)
		}
		projectID, errResult := requireProjectID(req)
		if errResult != nil {
			return errResult, nil
		}

		bank, err := deps.ProjectService.GetMemoryBank(ctx, ownerID, projectID)
		if err != nil {
			return failure(deps, "get_memory_bank", err)
		}
		return jsonResult(bank)
	})
}
