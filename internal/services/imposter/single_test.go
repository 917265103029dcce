package imposter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/words"
	"github.com/mcoot/partygames/internal/testutil"
)

// stubWords serves fixed pairs and records reported usage batches
type stubWords struct {
	pairs    []model.WordPair
	limits   []int
	reported [][]model.WordUsage
}

func (w *stubWords) WordPairs(ctx context.Context, limit int, locale string) ([]model.WordPair, words.Source) {
	w.limits = append(w.limits, limit)
	return w.pairs, words.SourceRemote
}

func (w *stubWords) ReportUsage(ctx context.Context, usages []model.WordUsage) {
	w.reported = append(w.reported, usages)
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type SingleDeviceSuite struct {
	suite.Suite
	words   *stubWords
	service *Service
	game    *model.ImposterGame
	ctx     context.Context
}

func TestSingleDeviceSuite(t *testing.T) {
	suite.Run(t, new(SingleDeviceSuite))
}

func (s *SingleDeviceSuite) SetupTest() {
	s.words = &stubWords{pairs: []model.WordPair{
		{ID: "p1", Normal: "Coffee", Imposter: "Tea"},
		{Normal: "Sun", Imposter: "Moon"},
		{ID: "p3", Normal: "Cat", Imposter: "Dog"},
	}}
	s.service = NewService(random.New(), s.words, testutil.NopLogger())
	s.game = model.NewImposterGame()
	s.ctx = context.Background()
}

func (s *SingleDeviceSuite) addPlayers(n int) {
	s.Require().NoError(s.service.Next(s.game))
	for i := 0; i < n; i++ {
		_, err := s.service.AddPlayer(s.game, fmt.Sprintf("Player %d", i), t0.Add(time.Duration(i)*time.Millisecond))
		s.Require().NoError(err)
	}
}

func (s *SingleDeviceSuite) startGame(n int) {
	s.addPlayers(n)
	s.Require().NoError(s.service.Next(s.game))
	s.Require().NoError(s.service.StartGame(s.ctx, s.game))
}

func (s *SingleDeviceSuite) revealAll() {
	for _, p := range s.game.Players {
		_, err := s.service.RevealWord(s.game, p.ID)
		s.Require().NoError(err)
	}
}

func (s *SingleDeviceSuite) TestNextRequiresThreePlayers() {
	s.addPlayers(2)
	s.ErrorIs(s.service.Next(s.game), model.ErrNotEnoughPlayers)
	s.Equal(model.ImposterPhasePlayers, s.game.Phase)

	_, err := s.service.AddPlayer(s.game, "Third", t0.Add(time.Second))
	s.Require().NoError(err)
	s.NoError(s.service.Next(s.game))
	s.Equal(model.ImposterPhaseRoundsAndTime, s.game.Phase)
}

func (s *SingleDeviceSuite) TestDuplicateNameRejected() {
	s.addPlayers(3)
	_, err := s.service.AddPlayer(s.game, "  player 1 ", t0.Add(time.Hour))
	s.ErrorIs(err, model.ErrPlayerExists)
	s.Len(s.game.Players, 3)
}

func (s *SingleDeviceSuite) TestSettingsValidation() {
	s.ErrorIs(s.service.SetRounds(s.game, 0), model.ErrInvalidSetting)
	s.ErrorIs(s.service.SetRounds(s.game, 11), model.ErrInvalidSetting)
	s.NoError(s.service.SetRounds(s.game, 10))

	s.ErrorIs(s.service.SetRoundTime(s.game, 15), model.ErrInvalidSetting)
	s.ErrorIs(s.service.SetRoundTime(s.game, 50), model.ErrInvalidSetting)
	s.NoError(s.service.SetRoundTime(s.game, 45))
	s.Equal(45, s.game.Timer.Duration)

	s.ErrorIs(s.service.SetLocale(s.game, "xx"), model.ErrInvalidLocale)
	s.NoError(s.service.SetLocale(s.game, "TR"))
	s.Equal("tr", s.game.Settings.Locale)
}

func (s *SingleDeviceSuite) TestStartGameDealsRoundOne() {
	s.startGame(5)

	s.Equal(model.ImposterPhaseWordAssignment, s.game.Phase)
	s.Equal(1, s.game.CurrentRound)
	s.Equal("Coffee", s.game.CurrentPair.Normal)
	s.Equal([]int{model.ImposterDefaultRounds}, s.words.limits, "requests one pair per round")
	s.NotNil(s.game.Players.Find(s.game.StartingPlayer))

	imposters := 0
	for _, p := range s.game.Players {
		if p.IsImposter {
			imposters++
			s.Equal("Tea", p.Word)
		} else {
			s.Equal("Coffee", p.Word)
		}
	}
	s.Equal(2, imposters)
}

func (s *SingleDeviceSuite) TestStartingPlayerComesFromRandom() {
	r := mocks.NewMockRandom()
	r.QueueIntn(2)
	s.service = NewService(r, s.words, testutil.NopLogger())
	s.addPlayers(3)
	want := s.game.Players[2].ID
	s.Require().NoError(s.service.Next(s.game))

	s.Require().NoError(s.service.StartGame(s.ctx, s.game))

	s.Equal(want, s.game.StartingPlayer)
}

func (s *SingleDeviceSuite) TestRosterLockedOnceStarted() {
	s.startGame(3)

	_, err := s.service.AddPlayer(s.game, "Late", t0)
	s.ErrorIs(err, model.ErrInvalidPhase)
	s.ErrorIs(s.service.RemovePlayer(s.game, s.game.Players[0].ID), model.ErrInvalidPhase)
}

func (s *SingleDeviceSuite) TestGameplayNeedsEveryWordRead() {
	s.startGame(3)

	_, err := s.service.RevealWord(s.game, s.game.Players[0].ID)
	s.Require().NoError(err)
	s.ErrorIs(s.service.BeginGameplay(s.game, t0), model.ErrWordsUnread)

	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))
	s.Equal(model.ImposterPhaseGameplay, s.game.Phase)
	s.True(s.game.Timer.Running)
	s.Equal(2, s.game.Players[0].RevealCount)
}

func (s *SingleDeviceSuite) TestTimerRunsOnlyInGameplay() {
	s.startGame(3)
	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))

	s.False(s.service.Advance(s.game, t0.Add(59*time.Second)))
	s.Equal(1, s.game.Timer.Remaining)
	s.True(s.service.Advance(s.game, t0.Add(60*time.Second)))
	s.False(s.game.Timer.Running)
	s.False(s.service.TimerActive(s.game))

	// Manual advance is still required after the alarm
	s.Equal(model.ImposterPhaseGameplay, s.game.Phase)
	s.Require().NoError(s.service.FinishRound(s.game))
	s.Equal(model.ImposterPhaseVoting, s.game.Phase)
}

func (s *SingleDeviceSuite) TestPauseResumeReset() {
	s.startGame(3)
	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))

	s.service.Advance(s.game, t0.Add(10*time.Second))
	s.Require().NoError(s.service.PauseTimer(s.game))
	s.service.Advance(s.game, t0.Add(40*time.Second))
	s.Equal(50, s.game.Timer.Remaining)

	s.Require().NoError(s.service.ResumeTimer(s.game, t0.Add(40*time.Second)))
	s.service.Advance(s.game, t0.Add(45*time.Second))
	s.Equal(45, s.game.Timer.Remaining)

	s.Require().NoError(s.service.ResetTimer(s.game))
	s.Equal(60, s.game.Timer.Remaining)
	s.False(s.game.Timer.Running)
}

func (s *SingleDeviceSuite) playRound(points map[int]int) {
	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))
	s.Require().NoError(s.service.FinishRound(s.game))
	s.Require().NoError(s.service.ShowResults(s.game))
	for idx, pts := range points {
		s.Require().NoError(s.service.SetRoundPoints(s.game, s.game.Players[idx].ID, pts))
	}
	s.Require().NoError(s.service.SaveRoundPoints(s.ctx, s.game))
}

func (s *SingleDeviceSuite) TestPointsAccumulateAcrossRounds() {
	s.startGame(4)

	s.playRound(map[int]int{0: 2, 1: 1})
	s.Equal(2, s.game.CurrentRound)
	s.Equal("Sun", s.game.CurrentPair.Normal)

	before := map[model.PlayerID]int{}
	for _, p := range s.game.Players {
		before[p.ID] = p.Points
	}
	target := s.game.Players[3].ID

	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))
	s.Require().NoError(s.service.FinishRound(s.game))
	s.Require().NoError(s.service.ShowResults(s.game))
	s.Require().NoError(s.service.SetRoundPoints(s.game, target, 2))
	s.Require().NoError(s.service.SaveRoundPoints(s.ctx, s.game))

	p := s.game.Players.Find(target)
	s.Equal(before[target]+2, p.Points)
	s.Zero(p.RoundPoints)
}

func (s *SingleDeviceSuite) TestInvalidRoundPoints() {
	s.startGame(3)
	s.revealAll()
	s.Require().NoError(s.service.BeginGameplay(s.game, t0))
	s.Require().NoError(s.service.FinishRound(s.game))
	s.Require().NoError(s.service.ShowResults(s.game))

	s.ErrorIs(s.service.SetRoundPoints(s.game, s.game.Players[0].ID, 3), model.ErrInvalidPoints)
	s.ErrorIs(s.service.SetRoundPoints(s.game, "missing", 1), model.ErrPlayerNotFound)
}

func (s *SingleDeviceSuite) TestUsageReportedOnceAtFinalResults() {
	s.startGame(3)

	s.playRound(map[int]int{0: 2, 1: 2, 2: 2})
	s.playRound(nil)
	s.Empty(s.words.reported)
	s.playRound(map[int]int{0: 1})

	s.Equal(model.ImposterPhaseFinalResults, s.game.Phase)
	s.Require().Len(s.words.reported, 1)
	// Pair two has no id and is not rated
	usages := s.words.reported[0]
	s.Require().Len(usages, 2)
	s.Equal("p1", usages[0].PairID)
	s.Equal(4.0, usages[0].Rating)
	s.Equal("p3", usages[1].PairID)
	s.InDelta(3+1.0/6, usages[1].Rating, 1e-9)
	s.True(s.game.UsagesReported)
}

func (s *SingleDeviceSuite) TestUsageRatingClamp() {
	s.Equal(3.0, UsageRating(model.Roster{{}, {}}))
	s.Equal(4.0, UsageRating(model.Roster{{RoundPoints: 2}, {RoundPoints: 2}}))
	s.Equal(3.5, UsageRating(model.Roster{{RoundPoints: 2}, {RoundPoints: 0}}))
}

func (s *SingleDeviceSuite) TestExitKeepsPointsUntilRestart() {
	s.startGame(3)
	s.playRound(map[int]int{0: 2})
	scorer := s.game.Players
	total := 0
	for _, p := range scorer {
		total += p.Points
	}
	s.Require().Equal(2, total)

	s.Require().NoError(s.service.Back(s.game))

	s.Equal(model.ImposterPhaseRules, s.game.Phase)
	s.Equal(1, s.game.CurrentRound)
	total = 0
	for _, p := range s.game.Players {
		total += p.Points
		s.Empty(p.Word)
		s.False(p.HasRevealed)
	}
	s.Equal(2, total)

	s.Require().NoError(s.service.Next(s.game))
	s.Require().NoError(s.service.Next(s.game))
	s.Require().NoError(s.service.StartGame(s.ctx, s.game))
	for _, p := range s.game.Players {
		s.Zero(p.Points)
	}
}

func (s *SingleDeviceSuite) TestBackThroughSetup() {
	s.ErrorIs(s.service.Back(s.game), model.ErrInvalidPhase)
	s.addPlayers(3)
	s.Require().NoError(s.service.Next(s.game))

	s.Require().NoError(s.service.Back(s.game))
	s.Equal(model.ImposterPhasePlayers, s.game.Phase)
	s.Require().NoError(s.service.Back(s.game))
	s.Equal(model.ImposterPhaseRules, s.game.Phase)
	s.Len(s.game.Players, 3)
}
