package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/charades"
	"github.com/mcoot/partygames/internal/services/imposter"
	"github.com/mcoot/partygames/internal/services/mafia"
	"github.com/mcoot/partygames/internal/services/scoring"
	"github.com/mcoot/partygames/internal/services/synonyms"
	"github.com/mcoot/partygames/internal/services/words"
	"github.com/mcoot/partygames/internal/storage/memory"
	"github.com/mcoot/partygames/internal/testutil"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// recorder collects published events
type recorder struct {
	mu      sync.Mutex
	events  []model.Event
	removed []model.SessionID
}

func (r *recorder) Publish(e model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Remove(id model.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
}

func (r *recorder) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) has(t model.EventType) bool {
	for _, got := range r.types() {
		if got == t {
			return true
		}
	}
	return false
}

type ControllerSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	store      *memory.Storage
	events     *recorder
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(t0)
	s.random = mocks.NewMockRandom()
	s.store = memory.New()
	s.events = &recorder{}
	s.controller = s.newController(Config{})
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func (s *ControllerSuite) newController(cfg Config) *Controller {
	logger := testutil.NopLogger()
	wordSvc := words.New(nil, s.store, logger)
	games := Games{
		Imposter: imposter.NewService(s.random, wordSvc, logger),
		Mafia:    mafia.NewService(s.random, logger),
		Charades: charades.NewService(s.random, wordSvc, logger),
		Synonyms: synonyms.NewService(s.random, wordSvc, logger),
	}
	return NewController(s.store, s.clock, auth.New(auth.Config{TokenCost: bcrypt.MinCost}),
		games, scoring.New(), s.events, cfg, logger)
}

func (s *ControllerSuite) create(game model.GameType) model.SessionID {
	sess, token, err := s.controller.Create(s.ctx, game, CreateOptions{})
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	return sess.ID
}

func (s *ControllerSuite) act(id model.SessionID, action string, p Params) *model.Session {
	sess, err := s.controller.Act(s.ctx, id, action, p)
	s.Require().NoError(err, action)
	return sess
}

func (s *ControllerSuite) seat(id model.SessionID, n int) []model.PlayerID {
	ids := make([]model.PlayerID, 0, n)
	for i := 0; i < n; i++ {
		_, p, err := s.controller.AddPlayer(s.ctx, id, fmt.Sprintf("P%d", i))
		s.Require().NoError(err)
		ids = append(ids, p.ID)
		s.clock.Advance(time.Millisecond)
	}
	return ids
}

// imposterInGameplay drives a three player imposter game to a running timer
func (s *ControllerSuite) imposterInGameplay() model.SessionID {
	id := s.create(model.GameImposter)
	s.act(id, "next", Params{})
	players := s.seat(id, 3)
	s.act(id, "next", Params{})
	s.act(id, "start", Params{})
	for _, p := range players {
		s.act(id, "reveal", Params{PlayerID: p})
	}
	sess := s.act(id, "begin", Params{})
	s.Require().True(sess.Imposter.Timer.Running)
	return id
}

func (s *ControllerSuite) TestCreateAndAuthorize() {
	sess, token, err := s.controller.Create(s.ctx, model.GameMafia, CreateOptions{})
	s.Require().NoError(err)

	s.Equal(model.GameMafia, sess.Game)
	s.NotNil(sess.Mafia)
	s.NotContains(string(sess.TokenHash), token)
	s.Equal(t0, sess.CreatedAt)

	s.NoError(s.controller.Authorize(s.ctx, sess.ID, token))
	s.ErrorIs(s.controller.Authorize(s.ctx, sess.ID, "guess"), model.ErrInvalidToken)
	s.ErrorIs(s.controller.Authorize(s.ctx, "missing", token), model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestCreateNamesSession() {
	sess, _, err := s.controller.Create(s.ctx, model.GameMafia, CreateOptions{})
	s.Require().NoError(err)
	s.Regexp(`^[^-\s]+-[^-\s]+$`, sess.Name)

	sess, _, err = s.controller.Create(s.ctx, model.GameMafia, CreateOptions{Name: "  Game night "})
	s.Require().NoError(err)
	s.Equal("Game night", sess.Name)
}

func (s *ControllerSuite) TestJoinCode() {
	id := s.create(model.GameMultiDevice)
	code, err := s.controller.JoinCode(s.ctx, id)
	s.Require().NoError(err)
	s.Len(code, model.GameCodeLength)

	_, err = s.controller.JoinCode(s.ctx, s.create(model.GameCharades))
	s.ErrorIs(err, model.ErrNoJoinCode)

	_, err = s.controller.JoinCode(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestCreateRejectsUnknownGame() {
	_, _, err := s.controller.Create(s.ctx, "chess", CreateOptions{})
	s.ErrorIs(err, model.ErrUnknownGame)
}

func (s *ControllerSuite) TestCreateAppliesLocale() {
	sess, _, err := s.controller.Create(s.ctx, model.GameImposter, CreateOptions{Locale: "de"})
	s.Require().NoError(err)
	s.Equal("de", sess.Imposter.Settings.Locale)

	_, _, err = s.controller.Create(s.ctx, model.GameCharades, CreateOptions{Locale: "xx"})
	s.ErrorIs(err, model.ErrInvalidLocale)
}

func (s *ControllerSuite) TestCreateLoadsWordsOffline() {
	id := s.create(model.GameSynonyms)
	sess, err := s.controller.Get(s.ctx, id)
	s.Require().NoError(err)
	s.NotEmpty(sess.Synonyms.Words)
}

func (s *ControllerSuite) TestActPublishesPhaseChange() {
	id := s.create(model.GameImposter)
	s.act(id, "next", Params{})

	s.Equal([]model.EventType{model.EventPhaseChanged}, s.events.types())

	s.seat(id, 1)
	s.Equal(model.EventSessionUpdated, s.events.types()[1])
}

func (s *ControllerSuite) TestFailedActionIsNotSaved() {
	id := s.create(model.GameImposter)
	s.act(id, "next", Params{})
	s.seat(id, 3)
	s.act(id, "next", Params{})
	s.act(id, "start", Params{})

	_, err := s.controller.Act(s.ctx, id, "begin", Params{})
	s.ErrorIs(err, model.ErrWordsUnread)

	sess, err := s.controller.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.ImposterPhaseWordAssignment, sess.Imposter.Phase)
}

func (s *ControllerSuite) TestUnknownAction() {
	id := s.create(model.GameMafia)
	_, err := s.controller.Act(s.ctx, id, "sense", Params{})
	s.ErrorIs(err, model.ErrUnknownAction)

	_, err = s.controller.Act(s.ctx, "missing", "next", Params{})
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestActionsAreListedPerGame() {
	s.Contains(s.controller.Actions(model.GameSynonyms), "sense")
	s.NotContains(s.controller.Actions(model.GameCharades), "sense")
	s.Contains(s.controller.Actions(model.GameMultiDevice), "vote")
	s.Empty(s.controller.Actions("chess"))

	names := s.controller.Actions(model.GameMafia)
	s.IsIncreasing(names)
}

func (s *ControllerSuite) TestGetAppliesElapsedTime() {
	id := s.imposterInGameplay()

	s.clock.Advance(10 * time.Second)
	sess, err := s.controller.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.ImposterDefaultRoundTime-10, sess.Imposter.Timer.Remaining)

	// The advanced state was persisted
	stored, err := s.store.GetSession(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.ImposterDefaultRoundTime-10, stored.Imposter.Timer.Remaining)
}

func (s *ControllerSuite) TestTickPublishesTimeUpOnce() {
	id := s.imposterInGameplay()

	s.True(s.controller.Tick(s.ctx, id))
	s.clock.Advance(time.Duration(model.ImposterDefaultRoundTime) * time.Second)

	s.False(s.controller.Tick(s.ctx, id))
	s.True(s.events.has(model.EventTimeUp))

	count := 0
	s.clock.Advance(5 * time.Second)
	s.controller.Tick(s.ctx, id)
	for _, t := range s.events.types() {
		if t == model.EventTimeUp {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *ControllerSuite) TestTickOnMissingSession() {
	s.False(s.controller.Tick(s.ctx, "missing"))
}

func (s *ControllerSuite) TestBackgroundTicking() {
	s.controller.Close()
	s.controller = s.newController(Config{TickInterval: 5 * time.Millisecond})

	id := s.imposterInGameplay()
	s.clock.Advance(time.Duration(model.ImposterDefaultRoundTime) * time.Second)

	s.Eventually(func() bool { return s.events.has(model.EventTimeUp) }, time.Second, 5*time.Millisecond)

	sess, err := s.store.GetSession(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(0, sess.Imposter.Timer.Remaining)
	s.False(sess.Imposter.Timer.Running)
}

func (s *ControllerSuite) TestResumeTimers() {
	id := s.imposterInGameplay()

	s.controller.Close()
	s.controller = s.newController(Config{TickInterval: 5 * time.Millisecond})
	s.Require().NoError(s.controller.ResumeTimers(s.ctx))

	s.clock.Advance(5 * time.Second)
	s.Eventually(func() bool {
		sess, err := s.store.GetSession(s.ctx, id)
		return err == nil && sess.Imposter.Timer.Remaining == model.ImposterDefaultRoundTime-5
	}, time.Second, 5*time.Millisecond)
}

func (s *ControllerSuite) TestAddAndRemovePlayer() {
	id := s.create(model.GameMafia)
	s.act(id, "next", Params{})
	players := s.seat(id, 2)

	_, _, err := s.controller.AddPlayer(s.ctx, id, "P0")
	s.ErrorIs(err, model.ErrPlayerExists)

	sess, err := s.controller.RemovePlayer(s.ctx, id, players[0])
	s.Require().NoError(err)
	s.Len(sess.Mafia.Players, 1)

	_, err = s.controller.RemovePlayer(s.ctx, id, players[0])
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestMultiDeviceJoin() {
	id := s.create(model.GameMultiDevice)
	players := s.seat(id, 3)
	for _, p := range players {
		s.act(id, "toggle_ready", Params{PlayerID: p})
	}
	sess := s.act(id, "start", Params{})
	s.Equal(model.MultiDevicePhaseWordAssignment, sess.MultiDevice.Phase)

	_, _, err := s.controller.AddPlayer(s.ctx, id, "late")
	s.ErrorIs(err, model.ErrInvalidPhase)
}

func (s *ControllerSuite) TestDelete() {
	id := s.create(model.GameCharades)

	s.Require().NoError(s.controller.Delete(s.ctx, id))

	s.True(s.events.has(model.EventSessionDeleted))
	s.Equal([]model.SessionID{id}, s.events.removed)
	_, err := s.controller.Get(s.ctx, id)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.ErrorIs(s.controller.Delete(s.ctx, id), model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestList() {
	a := s.create(model.GameMafia)
	b := s.create(model.GameCharades)

	ids, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.SessionID{a, b}, ids)
}

func (s *ControllerSuite) TestCharadesResults() {
	id := s.create(model.GameCharades)
	s.act(id, "next", Params{})
	s.seat(id, 2)
	s.act(id, "next", Params{})
	s.act(id, "start", Params{})
	s.act(id, "adjust_score", Params{Team: 1, Delta: 2})

	res, err := s.controller.Results(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(res.Teams)
	s.Equal([2]int{0, 2}, res.Teams.Scores)
	s.Equal(1, res.Teams.Winner)
	s.Empty(res.Standings)
}

func (s *ControllerSuite) TestImposterResults() {
	id := s.imposterInGameplay()
	sess := s.act(id, "finish_round", Params{})
	s.Equal(model.ImposterPhaseVoting, sess.Imposter.Phase)
	s.act(id, "show_results", Params{})

	winner := sess.Imposter.Players[2].ID
	s.act(id, "set_round_points", Params{PlayerID: winner, Points: 2})
	s.act(id, "save_round_points", Params{})

	res, err := s.controller.Results(s.ctx, id)
	s.Require().NoError(err)
	s.Len(res.Standings, 3)
	s.Equal(winner, res.Standings[0].PlayerID)
	s.Equal([]model.PlayerID{winner}, res.Winners)
}

func (s *ControllerSuite) TestMafiaResultsAreEmpty() {
	id := s.create(model.GameMafia)
	res, err := s.controller.Results(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.GameMafia, res.Game)
	s.Empty(res.Standings)
	s.Nil(res.Teams)
}

func (s *ControllerSuite) TestSynonymsSenseNeedsReading() {
	id := s.create(model.GameSynonyms)
	_, err := s.controller.Act(s.ctx, id, "sense", Params{})
	s.ErrorIs(err, model.ErrInvalidSetting)
}
