package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/session"
)

// PlayerHandler handles roster endpoints
type PlayerHandler struct {
	controller *session.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller *session.Controller) *PlayerHandler {
	return &PlayerHandler{
		controller: controller,
	}
}

// Add handles POST /api/v1/sessions/{id}/players
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, player, err := h.controller.AddPlayer(r.Context(), middleware.MustSessionID(r.Context()), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AddPlayerResponse{
		Player:  response.PlayerFromModel(player),
		Session: response.SessionFromModel(s),
	})
}

// Remove handles DELETE /api/v1/sessions/{id}/players/{player_id}
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	s, err := h.controller.RemovePlayer(r.Context(), middleware.MustSessionID(r.Context()), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}
