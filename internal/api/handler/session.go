package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/preferences"
	"github.com/mcoot/partygames/internal/services/session"
)

// SessionHandler handles session lifecycle and game intents
type SessionHandler struct {
	controller  *session.Controller
	preferences *preferences.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller, prefs *preferences.Service) *SessionHandler {
	return &SessionHandler{
		controller:  controller,
		preferences: prefs,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Game == "" {
		WriteError(w, NewInvalidRequestError("game is required"))
		return
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = h.preferences.Locale(r.Context(), req.Profile)
	}

	s, token, err := h.controller.Create(r.Context(), model.GameType(req.Game), session.CreateOptions{
		Locale: locale,
		Name:   req.Name,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/api/v1/sessions/" + string(s.ID),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	response.JSON(w, http.StatusCreated, response.CreateSessionResponse{
		Session: response.SessionFromModel(s),
		Token:   token,
	})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.Get(r.Context(), middleware.MustSessionID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// QR image bounds, in pixels
const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
)

// JoinQR handles GET /api/v1/sessions/{id}/qr and renders the join code
// of a multi-device game as a PNG.
func (h *SessionHandler) JoinQR(w http.ResponseWriter, r *http.Request) {
	size := qrDefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < qrMinSize || n > qrMaxSize {
			WriteError(w, NewInvalidRequestError("size must be between 64 and 1024"))
			return
		}
		size = n
	}

	code, err := h.controller.JoinCode(r.Context(), middleware.MustSessionID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.PNG(w, png)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Delete(r.Context(), middleware.MustSessionID(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Results handles GET /api/v1/sessions/{id}/results
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	res, err := h.controller.Results(r.Context(), middleware.MustSessionID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Actions handles GET /api/v1/games/{game}/actions
func (h *SessionHandler) Actions(w http.ResponseWriter, r *http.Request) {
	game := model.GameType(mux.Vars(r)["game"])
	if !game.Valid() {
		WriteError(w, model.ErrUnknownGame)
		return
	}
	response.JSON(w, http.StatusOK, response.Actions{
		Game:    string(game),
		Actions: h.controller.Actions(game),
	})
}

// Act handles POST /api/v1/sessions/{id}/actions/{action}
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	var params session.Params
	if err := decodeBody(w, r, &params); err != nil {
		WriteError(w, err)
		return
	}

	action := mux.Vars(r)["action"]
	s, err := h.controller.Act(r.Context(), middleware.MustSessionID(r.Context()), action, params)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}
