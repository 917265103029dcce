package request

import "github.com/mcoot/partygames/internal/services/preferences"

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Game string `json:"game"`
	// Locale overrides the device preference for this session
	Locale string `json:"locale,omitempty"`
	// Name labels the session; omitted picks a random one
	Name string `json:"name,omitempty"`
	// Profile names the preferences to read the default locale from
	Profile string `json:"profile,omitempty"`
}

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// UpdatePreferencesRequest is the request body for changing preferences.
// Omitted fields are left as they are.
type UpdatePreferencesRequest = preferences.Update
