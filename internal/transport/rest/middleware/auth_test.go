package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"herovault/internal/config"
	"herovault/internal/service"
)

func newTestAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{
		JWTSecret:       "test-secret",
		AdminUsername:   "admin",
		AdminPassword:   "pw",
		SessionTokenTTL: time.Hour,
	})
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, _ = w.Write([]byte(GetAdminID(ctx) + "|" + GetPlayerKey(ctx) + "|" + GetEmail(ctx)))
}

func TestRequirePlayer(t *testing.T) {
	auth := newTestAuth()
	h := NewAuthMiddleware(auth).RequirePlayer(http.HandlerFunc(echoIdentity))
	token, err := auth.GeneratePlayerToken("ayla@example_com", "ayla@example.com")
	if err != nil {
		t.Fatalf("GeneratePlayerToken: %v", err)
	}
	admin, err := auth.Login("admin", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK, "|ayla@example_com|ayla@example.com"},
		{"lowercase scheme", "bearer " + token, "", http.StatusOK, "|ayla@example_com|ayla@example.com"},
		{"query token", "", token, http.StatusOK, "|ayla@example_com|ayla@example.com"},
		{"missing", "", "", http.StatusUnauthorized, "missing authorization"},
		{"wrong scheme", "Basic " + token, "", http.StatusUnauthorized, "missing authorization"},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized, "invalid or expired token"},
		{"admin token", "Bearer " + admin.Token, "", http.StatusUnauthorized, "invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/v1/player"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status || !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("status=%d body=%q, want %d containing %q", rec.Code, rec.Body.String(), tt.status, tt.body)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := newTestAuth()
	h := NewAuthMiddleware(auth).RequireAdmin(http.HandlerFunc(echoIdentity))
	admin, err := auth.Login("admin", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/admin/players/x", nil)
	req.Header.Set("Authorization", "Bearer "+admin.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != admin.AdminID+"||" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}

	// query tokens are player-only
	req = httptest.NewRequest(http.MethodDelete, "/v1/admin/players/x?token="+admin.Token, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status=%d content-type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
}
