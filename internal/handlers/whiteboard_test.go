package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"neutraledu-backend/internal/models"
)

func TestValidateScene(t *testing.T) {
	tests := []struct {
		name  string
		scene json.RawMessage
		valid bool
	}{
		{"well-formed scene", json.RawMessage(`{"elements":[],"appState":{}}`), true},
		{"empty scene rejected", nil, false},
		{"malformed JSON rejected", json.RawMessage(`{"elements":`), false},
		{"oversized scene rejected", json.RawMessage(`"` + string(bytes.Repeat([]byte("x"), maxSceneBytes)) + `"`), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/whiteboards", nil)

			ok := validateScene(rr, req, &models.SaveWhiteboardRequest{Scene: tc.scene})

			if ok != tc.valid {
				t.Errorf("Expected valid=%v, got %v", tc.valid, ok)
			}
			if !tc.valid && rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400 for invalid scene, got %d", rr.Code)
			}
		})
	}
}
