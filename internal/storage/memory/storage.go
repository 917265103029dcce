package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions are held encoded so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	sessions    map[model.SessionID][]byte
	preferences map[string]model.Preferences
	wordPairs   map[string][]model.WordPair
	wordLists   map[wordListKey][]string
}

type wordListKey struct {
	list   string
	locale string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:    make(map[model.SessionID][]byte),
		preferences: make(map[string]model.Preferences),
		wordPairs:   make(map[string][]model.WordPair),
		wordLists:   make(map[wordListKey][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = data
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.SessionID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Preference operations

func (s *Storage) SavePreferences(ctx context.Context, profile string, prefs *model.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[profile] = *prefs
	return nil
}

func (s *Storage) GetPreferences(ctx context.Context, profile string) (*model.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.preferences[profile]
	if !ok {
		return nil, model.ErrPreferencesNotFound
	}
	return &prefs, nil
}

// Word cache operations

func (s *Storage) SaveWordPairs(ctx context.Context, locale string, pairs []model.WordPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordPairs[locale] = slices.Clone(pairs)
	return nil
}

func (s *Storage) GetWordPairs(ctx context.Context, locale string) ([]model.WordPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pairs, ok := s.wordPairs[locale]
	if !ok || len(pairs) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return slices.Clone(pairs), nil
}

func (s *Storage) SaveWordList(ctx context.Context, list, locale string, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordLists[wordListKey{list: list, locale: locale}] = slices.Clone(words)
	return nil
}

func (s *Storage) GetWordList(ctx context.Context, list, locale string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words, ok := s.wordLists[wordListKey{list: list, locale: locale}]
	if !ok || len(words) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return slices.Clone(words), nil
}
