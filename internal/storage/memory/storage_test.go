package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newSession(id model.SessionID) *model.Session {
	return &model.Session{
		ID:        id,
		Game:      model.GameMafia,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Mafia:     model.NewMafiaGame(),
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := newSession("session-1")
	session.Mafia.Players = model.Roster{{ID: "p1", Name: "Alice"}}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(model.GameMafia, retrieved.Game)
	s.Require().Len(retrieved.Mafia.Players, 1)
	s.Equal("Alice", retrieved.Mafia.Players[0].Name)
}

func (s *StorageSuite) TestSessionIsNotAliased() {
	session := newSession("session-1")
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	// Mutating the caller's copy after save must not leak into storage
	session.Mafia.Phase = model.MafiaPhaseDone

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(model.MafiaPhaseRules, retrieved.Mafia.Phase)

	retrieved.Mafia.Phase = model.MafiaPhasePlayers
	again, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(model.MafiaPhaseRules, again.Mafia.Phase)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, newSession("session-1"))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "session-1"))

	exists, err := s.storage.SessionExists(s.ctx, "session-1")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListSessions() {
	_ = s.storage.SaveSession(s.ctx, newSession("b"))
	_ = s.storage.SaveSession(s.ctx, newSession("a"))

	ids, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"a", "b"}, ids)
}

// Preference tests

func (s *StorageSuite) TestPreferences() {
	_, err := s.storage.GetPreferences(s.ctx, "default")
	s.ErrorIs(err, model.ErrPreferencesNotFound)

	prefs := model.DefaultPreferences()
	prefs.Locale = "tr"
	s.Require().NoError(s.storage.SavePreferences(s.ctx, "default", &prefs))

	retrieved, err := s.storage.GetPreferences(s.ctx, "default")
	s.Require().NoError(err)
	s.Equal("tr", retrieved.Locale)
	s.Equal(model.ThemeSystem, retrieved.Theme)
}

// Word cache tests

func (s *StorageSuite) TestWordPairs() {
	_, err := s.storage.GetWordPairs(s.ctx, "en")
	s.ErrorIs(err, model.ErrWordsNotCached)

	pairs := []model.WordPair{{ID: "1", Normal: "Sun", Imposter: "Moon"}}
	s.Require().NoError(s.storage.SaveWordPairs(s.ctx, "en", pairs))

	retrieved, err := s.storage.GetWordPairs(s.ctx, "en")
	s.Require().NoError(err)
	s.Equal(pairs, retrieved)

	_, err = s.storage.GetWordPairs(s.ctx, "de")
	s.ErrorIs(err, model.ErrWordsNotCached)
}

func (s *StorageSuite) TestWordListsAreKeyedByListAndLocale() {
	s.Require().NoError(s.storage.SaveWordList(s.ctx, "charades", "en", []string{"Dancing", "Piano"}))

	words, err := s.storage.GetWordList(s.ctx, "charades", "en")
	s.Require().NoError(err)
	s.Equal([]string{"Dancing", "Piano"}, words)

	_, err = s.storage.GetWordList(s.ctx, "synonyms", "en")
	s.ErrorIs(err, model.ErrWordsNotCached)
}

func (s *StorageSuite) TestEmptyWordListIsAMiss() {
	s.Require().NoError(s.storage.SaveWordList(s.ctx, "charades", "en", nil))

	_, err := s.storage.GetWordList(s.ctx, "charades", "en")
	s.ErrorIs(err, model.ErrWordsNotCached)
}
