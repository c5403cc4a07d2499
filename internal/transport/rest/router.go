package rest

import (
	"log/slog"
	"net/http"

	"herovault/internal/service"
	"herovault/internal/transport/rest/handler"
	"herovault/internal/transport/rest/middleware"
	"herovault/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	Gateway     *service.Gateway
	Sessions    *service.SessionManager
	WSHub       *ws.Hub
	Logger      *slog.Logger

	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	playerHandler := handler.NewPlayerHandler(c.Sessions, c.AuthService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.Gateway)
	adminHandler := handler.NewAdminHandler(c.Sessions, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Sessions, c.Logger)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSAllowedOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", playerHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")
	v1.HandleFunc("/admin/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/player", wsHandler.PlayerWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/player", playerHandler.Get).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/player/actions", playerHandler.Act).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/sessions", playerHandler.SignOut).Methods("DELETE", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/admin/players/{email}", adminHandler.DeletePlayer).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
