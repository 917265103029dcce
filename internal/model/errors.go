package model

import "errors"

// Common errors used across the application
var (
	// Roster errors
	ErrEmptyName        = errors.New("player name is empty")
	ErrPlayerExists     = errors.New("player with this name already exists")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotEnoughPlayers = errors.New("not enough players")

	// Team errors
	ErrInvalidTeam       = errors.New("team must be 0 or 1")
	ErrUnassignedPlayers = errors.New("every player must be assigned to a team")
	ErrEmptyTeam         = errors.New("both teams need at least one player")

	// Phase errors
	ErrInvalidPhase   = errors.New("action not allowed in current phase")
	ErrInvalidSetting = errors.New("invalid game setting")
	ErrWordsUnread    = errors.New("not every player has read their word")
	ErrRolesUnread    = errors.New("not every player has seen their role")
	ErrNotAllReady    = errors.New("not every player is ready")
	ErrInvalidPoints  = errors.New("round points must be 0, 1 or 2")
	ErrInvalidVote    = errors.New("invalid vote")
	ErrRoleDisabled   = errors.New("optional roles need more than 3 players")
	ErrNoWords        = errors.New("no words available")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownGame     = errors.New("unknown game type")
	ErrUnknownAction   = errors.New("unknown action for this game")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrNoJoinCode      = errors.New("game has no join code")

	// Storage errors
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrWordsNotCached      = errors.New("words not cached")

	// Preference errors
	ErrInvalidLocale = errors.New("unsupported locale")
	ErrInvalidTheme  = errors.New("unsupported theme")
)
