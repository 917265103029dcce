package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/services/words"
)

// HealthHandler reports service health
type HealthHandler struct {
	words *words.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(wordSvc *words.Service) *HealthHandler {
	return &HealthHandler{words: wordSvc}
}

// Check handles GET /api/v1/health. The service stays healthy without the
// supplier; its state is reported alongside.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	supplier := "ok"
	if err := h.words.CheckHealth(r.Context()); err != nil {
		supplier = "unavailable"
		if errors.Is(err, words.ErrOffline) {
			supplier = "offline"
		}
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Supplier: supplier})
}
