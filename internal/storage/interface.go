package storage

import (
	"context"

	"github.com/mcoot/partygames/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)
	ListSessions(ctx context.Context) ([]model.SessionID, error)

	// Preference operations, keyed by device profile
	SavePreferences(ctx context.Context, profile string, prefs *model.Preferences) error
	GetPreferences(ctx context.Context, profile string) (*model.Preferences, error)

	// Word cache operations. A miss returns model.ErrWordsNotCached.
	SaveWordPairs(ctx context.Context, locale string, pairs []model.WordPair) error
	GetWordPairs(ctx context.Context, locale string) ([]model.WordPair, error)
	SaveWordList(ctx context.Context, list, locale string, words []string) error
	GetWordList(ctx context.Context, list, locale string) ([]string, error)
}
