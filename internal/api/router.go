package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/handler"
	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/events"
	shared "github.com/mcoot/partygames/internal/middleware"
	"github.com/mcoot/partygames/internal/services/preferences"
	"github.com/mcoot/partygames/internal/services/session"
	"github.com/mcoot/partygames/internal/services/words"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	SessionController  *session.Controller
	EventManager       *events.Manager
	WordsService       *words.Service
	PreferencesService *preferences.Service
	// RateLimiter is optional; nil disables per-client limiting
	RateLimiter *shared.ClientLimiter
	// AllowedOrigins limits websocket subscriptions; empty allows any origin
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.PreferencesService)
	playerHandler := handler.NewPlayerHandler(cfg.SessionController)
	eventsHandler := handler.NewEventsHandler(cfg.EventManager, events.NewUpgrader(cfg.AllowedOrigins), cfg.Logger)
	wordsHandler := handler.NewWordsHandler(cfg.WordsService, cfg.PreferencesService)
	prefsHandler := handler.NewPreferencesHandler(cfg.PreferencesService)
	healthHandler := handler.NewHealthHandler(cfg.WordsService)

	// Create middleware
	hostAuth := middleware.HostAuth(cfg.SessionController)
	loggingMiddleware := shared.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	// Creating a session hands out its host token
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/{game}/actions", sessionHandler.Actions).Methods(http.MethodGet)

	// Session routes (all require the host token)
	sessions := api.PathPrefix("/sessions/{id}").Subrouter()
	sessions.Use(hostAuth)
	sessions.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/results", sessionHandler.Results).Methods(http.MethodGet)
	sessions.HandleFunc("/players", playerHandler.Add).Methods(http.MethodPost)
	sessions.HandleFunc("/players/{player_id}", playerHandler.Remove).Methods(http.MethodDelete)
	sessions.HandleFunc("/actions/{action}", sessionHandler.Act).Methods(http.MethodPost)
	sessions.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	sessions.HandleFunc("/ws", eventsHandler.WebSocket).Methods(http.MethodGet)
	sessions.HandleFunc("/qr", sessionHandler.JoinQR).Methods(http.MethodGet)

	// Word lists, proxied from the supplier with cache and fallback
	api.HandleFunc("/words/pairs", wordsHandler.Pairs).Methods(http.MethodGet)
	api.HandleFunc("/words/charades", wordsHandler.Charades).Methods(http.MethodGet)
	api.HandleFunc("/words/synonyms", wordsHandler.Synonyms).Methods(http.MethodGet)

	// Device preferences
	api.HandleFunc("/preferences", prefsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/preferences", prefsHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/preferences/token", prefsHandler.SignOut).Methods(http.MethodDelete)

	return r
}
