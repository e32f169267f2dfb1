package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestJWTMiddleware_ValidToken(t *testing.T) {
	auth := NewJWTAuth("test-secret-key")
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, "test@example.com", "premium", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var gotUserID uuid.UUID
	var gotAdmin bool
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotAdmin = GetIsAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotUserID != userID {
		t.Errorf("Expected user ID %s in context, got %s", userID, gotUserID)
	}
	if gotAdmin {
		t.Error("Non-admin token should not set admin flag")
	}
}

func TestJWTMiddleware_AdminClaim(t *testing.T) {
	auth := NewJWTAuth("test-secret-key")

	token, err := auth.GenerateAccessToken(uuid.New(), "admin@example.com", "pro", true)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var gotAdmin bool
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdmin = GetIsAdmin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotAdmin {
		t.Error("Admin token should set admin flag in context")
	}
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	auth := NewJWTAuth("test-secret-key")

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run for rejected requests")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rr.Code)
			}
		})
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	issuer := NewJWTAuth("issuer-secret")
	verifier := NewJWTAuth("different-secret")

	token, err := issuer.GenerateAccessToken(uuid.New(), "test@example.com", "free", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run for token signed with another secret")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without admin claim, got %d", rr.Code)
	}
}
