package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"herovault/internal/game"
	"herovault/internal/model"
	"herovault/internal/service"
	"herovault/internal/transport/rest/middleware"
)

const maxActionBody = 64 << 10

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	sessions *service.SessionManager
	authSvc  *service.AuthService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(sessions *service.SessionManager, authSvc *service.AuthService) *PlayerHandler {
	return &PlayerHandler{
		sessions: sessions,
		authSvc:  authSvc,
	}
}

// Start handles POST /v1/sessions
// @Summary Start adventure
// @Description Binds the identity, creating the default player on first use
// @Tags player
// @Accept json
// @Produce json
// @Param body body model.Identity true "Identity"
// @Success 200 {object} model.BindResponse
// @Router /v1/sessions [post]
func (h *PlayerHandler) Start(w http.ResponseWriter, r *http.Request) {
	var id model.Identity
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.sessions.Bind(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.sessions.View(s)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(view.State.Key, view.State.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, &model.BindResponse{Token: token, Player: view})
}

// Get handles GET /v1/player
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Session(r.Context(), middleware.GetPlayerKey(r.Context()), middleware.GetEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.sessions.View(s)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Act handles POST /v1/player/actions
// @Summary Dispatch an action
// @Tags player
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]interface{}
// @Router /v1/player/actions [post]
func (h *PlayerHandler) Act(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := game.DecodeAction(body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx := r.Context()
	s, _, err := h.sessions.Dispatch(ctx, middleware.GetPlayerKey(ctx), middleware.GetEmail(ctx), service.WithGeneratedID(action))
	if err != nil && (s == nil || !errors.Is(err, service.ErrSyncFailure)) {
		writeServiceError(w, err)
		return
	}

	view, verr := h.sessions.View(s)
	if verr != nil {
		writeServiceError(w, verr)
		return
	}

	resp := map[string]interface{}{
		"player":     view,
		"saveStatus": view.SaveStatus,
	}
	if err != nil {
		// the optimistic state is still returned so the client can keep showing it
		resp["error"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SignOut handles DELETE /v1/sessions
func (h *PlayerHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.Remove(middleware.GetPlayerKey(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
