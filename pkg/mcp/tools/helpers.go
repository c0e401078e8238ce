package tools

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// trimString removes leading and trailing whitespace from a string.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// requireProjectID reads the project_id argument.
// On failure the returned result carries the error for the caller.
func requireProjectID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("project_id")
	if err != nil {
		return uuid.Nil, NewErrorResult("invalid_parameters", "missing required parameter: project_id")
	}
	id, err := uuid.Parse(trimString(raw))
	if err != nil {
		return uuid.Nil, NewErrorResult("invalid_parameters", "invalid project_id: must be a UUID")
	}
	return id, nil
}
