package redis

import (
	"fmt"

	"github.com/mcoot/partygames/internal/model"
)

// Key prefix for all party game data
const keyPrefix = "partygames"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the SET of live session ids
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// preferencesKey returns the Redis key for a device profile's preferences
func preferencesKey(profile string) string {
	return fmt.Sprintf("%s:preferences:%s", keyPrefix, profile)
}

// wordPairsKey returns the Redis key for cached imposter pairs
func wordPairsKey(locale string) string {
	return fmt.Sprintf("%s:words:pairs:%s", keyPrefix, locale)
}

// wordListKey returns the Redis LIST key for a cached single-word list
func wordListKey(list, locale string) string {
	return fmt.Sprintf("%s:words:list:%s:%s", keyPrefix, list, locale)
}
