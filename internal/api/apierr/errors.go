package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/partygames/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodePlayerExists        = "PLAYER_EXISTS"
	CodeInvalidName         = "INVALID_NAME"
	CodeNotEnoughPlayers    = "NOT_ENOUGH_PLAYERS"
	CodeInvalidTeam         = "INVALID_TEAM"
	CodeTeamsIncomplete     = "TEAMS_INCOMPLETE"
	CodeInvalidPhase        = "INVALID_PHASE"
	CodeInvalidSetting      = "INVALID_SETTING"
	CodeNotAllRevealed      = "NOT_ALL_REVEALED"
	CodeNotAllReady         = "NOT_ALL_READY"
	CodeInvalidPoints       = "INVALID_POINTS"
	CodeInvalidVote         = "INVALID_VOTE"
	CodeRoleDisabled        = "ROLE_DISABLED"
	CodeNoWords             = "NO_WORDS"
	CodeUnknownGame         = "UNKNOWN_GAME"
	CodeUnknownAction       = "UNKNOWN_ACTION"
	CodeNoJoinCode          = "NO_JOIN_CODE"
	CodeInvalidLocale       = "INVALID_LOCALE"
	CodeInvalidTheme        = "INVALID_THEME"
	CodeSupplierUnavailable = "SUPPLIER_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Session errors
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid session token"}}
	case errors.Is(err, model.ErrUnknownGame):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownGame, "Unknown game type"}}
	case errors.Is(err, model.ErrUnknownAction):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownAction, err.Error()}}
	case errors.Is(err, model.ErrNoJoinCode):
		return &httpError{http.StatusConflict, APIError{CodeNoJoinCode, "Only multi-device games have a join code"}}

	// Roster and team errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPlayerExists):
		return &httpError{http.StatusConflict, APIError{CodePlayerExists, "A player with this name already exists"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Name must not be empty"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPlayers, "Not enough players"}}
	case errors.Is(err, model.ErrInvalidTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeam, "Team must be 0 or 1"}}
	case errors.Is(err, model.ErrUnassignedPlayers), errors.Is(err, model.ErrEmptyTeam):
		return &httpError{http.StatusConflict, APIError{CodeTeamsIncomplete, err.Error()}}

	// Game flow errors
	case errors.Is(err, model.ErrInvalidPhase):
		return &httpError{http.StatusConflict, APIError{CodeInvalidPhase, "Action not allowed in the current phase"}}
	case errors.Is(err, model.ErrInvalidSetting):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSetting, "Invalid game setting"}}
	case errors.Is(err, model.ErrWordsUnread), errors.Is(err, model.ErrRolesUnread):
		return &httpError{http.StatusConflict, APIError{CodeNotAllRevealed, err.Error()}}
	case errors.Is(err, model.ErrNotAllReady):
		return &httpError{http.StatusConflict, APIError{CodeNotAllReady, "Not every player is ready"}}
	case errors.Is(err, model.ErrInvalidPoints):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPoints, "Round points must be 0, 1 or 2"}}
	case errors.Is(err, model.ErrInvalidVote):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidVote, "Invalid vote"}}
	case errors.Is(err, model.ErrRoleDisabled):
		return &httpError{http.StatusConflict, APIError{CodeRoleDisabled, "Optional roles need more than 3 players"}}
	case errors.Is(err, model.ErrNoWords):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoWords, "No words available"}}

	// Preference errors
	case errors.Is(err, model.ErrInvalidLocale):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLocale, "Unsupported locale"}}
	case errors.Is(err, model.ErrInvalidTheme):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTheme, "Unsupported theme"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests"}}
}

// NewSupplierUnavailableError reports an unreachable word supplier
func NewSupplierUnavailableError() error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeSupplierUnavailable, "Word supplier unavailable"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
