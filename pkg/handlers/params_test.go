package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestParseProjectID(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		pathValue  string
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{
			name:      "valid UUID",
			pathValue: "550e8400-e29b-41d4-a716-446655440000",
			wantOK:    true,
		},
		{
			name:       "invalid UUID",
			pathValue:  "not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_project_id",
		},
		{
			name:       "empty UUID",
			pathValue:  "",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_project_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.SetPathValue("pid", tt.pathValue)
			rec := httptest.NewRecorder()

			id, ok := ParseProjectID(rec, req, logger)

			if ok != tt.wantOK {
				t.Errorf("ParseProjectID() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK {
				if id.String() != tt.pathValue {
					t.Errorf("ParseProjectID() id = %v, want %v", id, tt.pathValue)
				}
				return
			}

			if id != uuid.Nil {
				t.Errorf("ParseProjectID() id = %v, want uuid.Nil", id)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("ParseProjectID() status = %v, want %v", rec.Code, tt.wantStatus)
			}

			var resp ApiResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("ParseProjectID() code = %v, want %v", resp.Code, tt.wantCode)
			}
		})
	}
}
