package handler

import (
	"net/http"

	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/services/preferences"
)

// PreferencesHandler handles device preferences
type PreferencesHandler struct {
	preferences *preferences.Service
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(prefs *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{preferences: prefs}
}

// Get handles GET /api/v1/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.preferences.Get(r.Context(), r.URL.Query().Get("profile"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PreferencesFromModel(prefs))
}

// Update handles PUT /api/v1/preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePreferencesRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	prefs, err := h.preferences.Apply(r.Context(), r.URL.Query().Get("profile"), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PreferencesFromModel(prefs))
}

// SignOut handles DELETE /api/v1/preferences/token
func (h *PreferencesHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.preferences.SignOut(r.Context(), r.URL.Query().Get("profile")); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
