package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

func newUserFlowMux(svc *mockUserFlowService) *http.ServeMux {
	mux := http.NewServeMux()
	NewUserFlowHandler(svc, zap.NewNop()).
		RegisterRoutes(mux, newTestAuthMiddleware(testOwner), passthroughOwner)
	return mux
}

func TestUserFlowHandler_Get(t *testing.T) {
	projectID := uuid.New()
	svc := &mockUserFlowService{flow: &models.UserFlow{
		ProjectID: projectID,
		Nodes:     []models.FlowNode{},
		Edges:     []models.FlowEdge{},
	}}

	rec := serve(newUserFlowMux(svc), http.MethodGet, "/userflow/"+projectID.String(), "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var flow map[string]any
	require.NoError(t, json.Unmarshal(data, &flow))
	assert.Equal(t, []any{}, flow["nodes"])
	assert.Equal(t, []any{}, flow["edges"])
}

func TestUserFlowHandler_Get_Unauthenticated(t *testing.T) {
	rec := serve(newUserFlowMux(&mockUserFlowService{}), http.MethodGet, "/userflow/"+uuid.NewString(), "", true)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserFlowHandler_Get_NotFound(t *testing.T) {
	svc := &mockUserFlowService{err: apperrors.ErrNotFound}

	rec := serve(newUserFlowMux(svc), http.MethodGet, "/userflow/"+uuid.NewString(), "", false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserFlowHandler_Update(t *testing.T) {
	svc := &mockUserFlowService{}
	body := `{
		"nodes":[
			{"id":"1","type":"input","position":{"x":0,"y":0},"data":{"title":"Sign up","description":"","checklist":[]}},
			{"id":"2","type":"default","position":{"x":0,"y":120},"data":{"title":"Dashboard","description":"","checklist":[]}}
		],
		"edges":[{"id":"e1-2","source":"1","target":"2","animated":true}]
	}`

	rec := serve(newUserFlowMux(svc), http.MethodPut, "/userflow/"+uuid.NewString(), body, false)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.lastNodes, 2)
	require.Len(t, svc.lastEdges, 1)
	assert.Equal(t, "Dashboard", svc.lastNodes[1].Data.Title)
	assert.True(t, svc.lastEdges[0].Animated)
}

func TestUserFlowHandler_Update_ValidationError(t *testing.T) {
	svc := &mockUserFlowService{err: fmt.Errorf("%w: edges is required", apperrors.ErrInvalidInput)}

	rec := serve(newUserFlowMux(svc), http.MethodPut, "/userflow/"+uuid.NewString(), `{"nodes":[]}`, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotNil(t, svc.lastNodes, "empty nodes array is passed through")
	assert.Nil(t, svc.lastEdges, "absent edges arrive as nil")
}

func TestUserFlowHandler_Update_NotFound(t *testing.T) {
	svc := &mockUserFlowService{err: apperrors.ErrNotFound}

	rec := serve(newUserFlowMux(svc), http.MethodPut, "/userflow/"+uuid.NewString(), `{"nodes":[],"edges":[]}`, false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
