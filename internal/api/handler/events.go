package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/events"
)

// EventsHandler streams session events
type EventsHandler struct {
	manager  *events.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(manager *events.Manager, upgrader websocket.Upgrader, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		manager:  manager,
		upgrader: upgrader,
		logger:   logger.With(slog.String("component", "events")),
	}
}

// Stream handles GET /api/v1/sessions/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	hub := h.manager.Hub(middleware.MustSessionID(r.Context()))
	events.Serve(w, r, hub)
}

// WebSocket handles GET /api/v1/sessions/{id}/ws
func (h *EventsHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	hub := h.manager.Hub(middleware.MustSessionID(r.Context()))
	events.ServeWS(w, r, hub, h.upgrader, h.logger)
}
