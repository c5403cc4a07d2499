package handler

import (
	"net/http"
	"strconv"

	"herovault/internal/service"
)

const maxLeaderboardLimit = 100

// LeaderboardHandler serves the public ranking
type LeaderboardHandler struct {
	gw *service.Gateway
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(gw *service.Gateway) *LeaderboardHandler {
	return &LeaderboardHandler{gw: gw}
}

// Top handles GET /v1/leaderboard?limit=
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := h.gw.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": entries,
	})
}
