package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Leonucn/Echo-chat/pkg/utils"
)

func TestAuthMiddlewarePassesUserID(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	token, err := utils.GenerateJWT("u123")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	var gotID string
	var gotOK bool
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !gotOK || gotID != "u123" {
		t.Fatalf("user id = %q, ok = %v", gotID, gotOK)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"bad token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/chatbot", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if called {
				t.Error("next handler ran without valid token")
			}
		})
	}
}
