package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"herovault/internal/model"
	"herovault/internal/service"
)

type ctxKey int

const (
	adminClaimsKey ctxKey = iota
	playerClaimsKey
)

// AuthMiddleware guards routes with admin or player JWTs
type AuthMiddleware struct {
	authSvc *service.AuthService
}

func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAdmin accepts only a bearer admin token
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return guard(next, adminClaimsKey, false, m.authSvc.ValidateAdminToken)
}

// RequirePlayer accepts a player token as bearer header or ?token=, the
// latter for browser WebSocket clients that cannot set headers.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return guard(next, playerClaimsKey, true, m.authSvc.ValidatePlayerToken)
}

func guard[C any](next http.Handler, key ctxKey, allowQuery bool, validate func(string) (C, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" && allowQuery {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}
		claims, err := validate(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, claims)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// GetAdminID returns the admin behind the request, or ""
func GetAdminID(ctx context.Context) string {
	if c, ok := ctx.Value(adminClaimsKey).(*model.AdminClaims); ok {
		return c.AdminID
	}
	return ""
}

func playerClaims(ctx context.Context) *model.PlayerClaims {
	c, _ := ctx.Value(playerClaimsKey).(*model.PlayerClaims)
	return c
}

// GetPlayerKey returns the normalized key of the bound player, or ""
func GetPlayerKey(ctx context.Context) string {
	if c := playerClaims(ctx); c != nil {
		return c.PlayerKey
	}
	return ""
}

// GetEmail returns the bound player's email, or ""
func GetEmail(ctx context.Context) string {
	if c := playerClaims(ctx); c != nil {
		return c.Email
	}
	return ""
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
