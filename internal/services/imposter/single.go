package imposter

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
)

func imposterSetup(p model.ImposterPhase) bool {
	return p == model.ImposterPhaseRules || p == model.ImposterPhasePlayers || p == model.ImposterPhaseRoundsAndTime
}

func requireImposterPhase(g *model.ImposterGame, phase model.ImposterPhase) error {
	if g.Phase != phase {
		return model.ErrInvalidPhase
	}
	return nil
}

// Next moves forward through the setup steps. Leaving the roster step
// requires the minimum number of players.
func (s *Service) Next(g *model.ImposterGame) error {
	switch g.Phase {
	case model.ImposterPhaseRules:
		g.Phase = model.ImposterPhasePlayers
	case model.ImposterPhasePlayers:
		if err := round.RequirePlayers(g.Players, model.ImposterMinPlayers); err != nil {
			return err
		}
		g.Phase = model.ImposterPhaseRoundsAndTime
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Back steps backwards through setup; once a game is running it exits
func (s *Service) Back(g *model.ImposterGame) error {
	switch g.Phase {
	case model.ImposterPhaseRules:
		return model.ErrInvalidPhase
	case model.ImposterPhasePlayers:
		g.Phase = model.ImposterPhaseRules
	case model.ImposterPhaseRoundsAndTime:
		g.Phase = model.ImposterPhasePlayers
	default:
		s.Exit(g)
	}
	return nil
}

// Exit abandons the running game. Round-scoped fields are cleared but
// cumulative points survive until the next StartGame zeroes them.
func (s *Service) Exit(g *model.ImposterGame) {
	g.Phase = model.ImposterPhaseRules
	g.CurrentPlayerIndex = 0
	g.CurrentRound = 1
	g.CurrentPair = nil
	if len(g.WordPairs) > 0 {
		first := g.WordPairs[0]
		g.CurrentPair = &first
	}
	for i := range g.Players {
		g.Players[i].ClearRound()
	}
	round.ResetTimer(&g.Timer)
}

// AddPlayer adds a player during setup
func (s *Service) AddPlayer(g *model.ImposterGame, name string, now time.Time) (*model.Player, error) {
	if !imposterSetup(g.Phase) {
		return nil, model.ErrInvalidPhase
	}
	return round.AddPlayer(&g.Players, name, now)
}

// RemovePlayer removes a player during setup
func (s *Service) RemovePlayer(g *model.ImposterGame, id model.PlayerID) error {
	if !imposterSetup(g.Phase) {
		return model.ErrInvalidPhase
	}
	round.RemovePlayer(&g.Players, nil, id)
	return nil
}

// SetRounds sets the number of rounds (1..10)
func (s *Service) SetRounds(g *model.ImposterGame, rounds int) error {
	if !imposterSetup(g.Phase) {
		return model.ErrInvalidPhase
	}
	if rounds < model.ImposterMinRounds || rounds > model.ImposterMaxRounds {
		return model.ErrInvalidSetting
	}
	g.Settings.Rounds = rounds
	return nil
}

// SetRoundTime sets the discussion time: at least 30 seconds, in steps of 15
func (s *Service) SetRoundTime(g *model.ImposterGame, seconds int) error {
	if !imposterSetup(g.Phase) {
		return model.ErrInvalidPhase
	}
	if seconds < model.ImposterMinRoundTime || seconds%model.ImposterRoundTimeStep != 0 {
		return model.ErrInvalidSetting
	}
	g.Settings.RoundTime = seconds
	round.SetDuration(&g.Timer, seconds)
	return nil
}

// SetLocale selects the word-pair language
func (s *Service) SetLocale(g *model.ImposterGame, locale string) error {
	if !imposterSetup(g.Phase) {
		return model.ErrInvalidPhase
	}
	return setLocale(&g.Settings.Locale, locale)
}

// StartGame fetches the word pairs, zeroes scores, picks a random starting
// player and deals round one.
func (s *Service) StartGame(ctx context.Context, g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseRoundsAndTime); err != nil {
		return err
	}
	if err := round.RequirePlayers(g.Players, model.ImposterMinPlayers); err != nil {
		return err
	}

	g.WordPairs = s.fetchPairs(ctx, g.Settings.Rounds, g.Settings.Locale)
	g.Usages = nil
	g.UsagesReported = false
	g.StartingPlayer = g.Players[s.random.Intn(len(g.Players))].ID

	for i := range g.Players {
		g.Players[i].Points = 0
	}
	g.CurrentRound = 1
	if err := s.deal(g); err != nil {
		return err
	}

	s.logger.Info("imposter game started",
		slog.Int("players", len(g.Players)),
		slog.Int("rounds", g.Settings.Rounds),
		slog.Int("pairs", len(g.WordPairs)),
	)
	return nil
}

func (s *Service) deal(g *model.ImposterGame) error {
	pair, err := round.PairForRound(g.WordPairs, g.CurrentRound)
	if err != nil {
		return err
	}
	round.AssignWords(s.random, &g.Players, pair)
	g.CurrentPair = &pair
	g.CurrentPlayerIndex = 0
	g.Phase = model.ImposterPhaseWordAssignment
	round.SetDuration(&g.Timer, g.Settings.RoundTime)
	return nil
}

// RevealWord shows a player their word and counts the view
func (s *Service) RevealWord(g *model.ImposterGame, id model.PlayerID) (*model.Player, error) {
	if err := requireImposterPhase(g, model.ImposterPhaseWordAssignment); err != nil {
		return nil, err
	}
	return round.Reveal(g.Players, id)
}

// BeginGameplay starts the discussion once every player has read their word
func (s *Service) BeginGameplay(g *model.ImposterGame, now time.Time) error {
	if err := requireImposterPhase(g, model.ImposterPhaseWordAssignment); err != nil {
		return err
	}
	if !round.AllRevealed(g.Players) {
		return model.ErrWordsUnread
	}
	g.Phase = model.ImposterPhaseGameplay
	round.StartTimer(&g.Timer, now)
	return nil
}

// PauseTimer pauses the discussion timer
func (s *Service) PauseTimer(g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseGameplay); err != nil {
		return err
	}
	round.PauseTimer(&g.Timer)
	return nil
}

// ResumeTimer resumes the discussion timer
func (s *Service) ResumeTimer(g *model.ImposterGame, now time.Time) error {
	if err := requireImposterPhase(g, model.ImposterPhaseGameplay); err != nil {
		return err
	}
	round.ResumeTimer(&g.Timer, now)
	return nil
}

// ResetTimer restores the full discussion time, stopped
func (s *Service) ResetTimer(g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseGameplay); err != nil {
		return err
	}
	round.ResetTimer(&g.Timer)
	return nil
}

// FinishRound ends the discussion and moves to voting
func (s *Service) FinishRound(g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseGameplay); err != nil {
		return err
	}
	round.PauseTimer(&g.Timer)
	g.Timer.Alarmed = false
	g.Phase = model.ImposterPhaseVoting
	return nil
}

// ShowResults opens the scoring step after the group has voted aloud
func (s *Service) ShowResults(g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseVoting); err != nil {
		return err
	}
	g.Phase = model.ImposterPhaseScoring
	return nil
}

// SetRoundPoints holds a 0, 1 or 2 point award until the round is saved
func (s *Service) SetRoundPoints(g *model.ImposterGame, id model.PlayerID, points int) error {
	if err := requireImposterPhase(g, model.ImposterPhaseScoring); err != nil {
		return err
	}
	if points < 0 || points > model.ImposterMaxRoundPoints {
		return model.ErrInvalidPoints
	}
	p := g.Players.Find(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	p.RoundPoints = points
	return nil
}

// SaveRoundPoints banks the held points, records the pair rating and deals
// the next round, or finishes the game after the last round.
func (s *Service) SaveRoundPoints(ctx context.Context, g *model.ImposterGame) error {
	if err := requireImposterPhase(g, model.ImposterPhaseScoring); err != nil {
		return err
	}

	if pair, err := round.PairForRound(g.WordPairs, g.CurrentRound); err == nil && pair.ID != "" {
		g.Usages = append(g.Usages, model.WordUsage{
			PairID: pair.ID,
			Rating: UsageRating(g.Players),
		})
	}

	for i := range g.Players {
		g.Players[i].Points += g.Players[i].RoundPoints
		g.Players[i].RoundPoints = 0
	}

	if g.CurrentRound < g.Settings.Rounds {
		g.CurrentRound++
		return s.deal(g)
	}

	g.Phase = model.ImposterPhaseFinalResults
	round.ResetTimer(&g.Timer)
	s.reportUsages(ctx, g)
	return nil
}

// reportUsages sends the collected ratings once per game
func (s *Service) reportUsages(ctx context.Context, g *model.ImposterGame) {
	if g.UsagesReported || len(g.Usages) == 0 {
		return
	}
	g.UsagesReported = true
	s.words.ReportUsage(ctx, g.Usages)
}

// UsageRating converts the average awarded round points into a 1..5 rating
func UsageRating(players model.Roster) float64 {
	if len(players) == 0 {
		return 3
	}
	total := 0
	for _, p := range players {
		total += p.RoundPoints
	}
	avg := float64(total) / float64(len(players))
	return min(5, max(1, 3+avg*0.5))
}

// Advance applies elapsed time. It reports whether the discussion timer
// reached zero.
func (s *Service) Advance(g *model.ImposterGame, now time.Time) bool {
	return round.AdvanceTimer(&g.Timer, now, g.Phase == model.ImposterPhaseGameplay)
}

// TimerActive reports whether the game needs periodic ticks
func (s *Service) TimerActive(g *model.ImposterGame) bool {
	return g.Timer.Running && g.Phase == model.ImposterPhaseGameplay
}
