package handler

import (
	"log/slog"
	"net/http"

	"herovault/internal/service"
	"herovault/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// AdminHandler handles operator endpoints
type AdminHandler struct {
	sessions *service.SessionManager
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions *service.SessionManager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{sessions: sessions, logger: logger}
}

// DeletePlayer handles DELETE /v1/admin/players/{email}
func (h *AdminHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.sessions.Delete(r.Context(), email); err != nil {
		writeServiceError(w, err)
		return
	}
	h.logger.Info("player deleted by admin", "admin", middleware.GetAdminID(r.Context()), "email", email)
	w.WriteHeader(http.StatusNoContent)
}
