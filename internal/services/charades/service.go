// Package charades runs team charades: two teams, a random word card and
// manually kept scores.
package charades

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
	"github.com/mcoot/partygames/internal/services/words"
)

// WordSupplier provides the charades word list
type WordSupplier interface {
	CharadesWords(ctx context.Context, query words.CharadesQuery) ([]string, words.Source)
}

// Service runs charades sessions
type Service struct {
	random random.Random
	words  WordSupplier
	logger *slog.Logger
}

// NewService creates a charades service
func NewService(r random.Random, words WordSupplier, logger *slog.Logger) *Service {
	return &Service{
		random: r,
		words:  words,
		logger: logger.With(slog.String("component", "charades")),
	}
}

func requirePhase(g *model.CharadesGame, phases ...model.CharadesPhase) error {
	for _, p := range phases {
		if g.Phase == p {
			return nil
		}
	}
	return model.ErrInvalidPhase
}

// LoadWords fetches the word list for the game's locale
func (s *Service) LoadWords(ctx context.Context, g *model.CharadesGame) {
	list, source := s.words.CharadesWords(ctx, words.CharadesQuery{
		Limit:  model.CharadesWordLimit,
		Locale: g.Locale,
	})
	g.Words = list
	s.logger.Debug("charades words loaded",
		slog.Int("count", len(list)),
		slog.String("source", string(source)),
	)
}

// SetLocale changes the word language and reloads the list
func (s *Service) SetLocale(ctx context.Context, g *model.CharadesGame, locale string) error {
	locale = model.NormalizeLocale(locale)
	if !model.IsSupportedLocale(locale) {
		return model.ErrInvalidLocale
	}
	g.Locale = locale
	s.LoadWords(ctx, g)
	return nil
}

// Next moves forward: rules, players, teams, then the game itself
func (s *Service) Next(g *model.CharadesGame) error {
	switch g.Phase {
	case model.CharadesPhaseRules:
		g.Phase = model.CharadesPhasePlayers
	case model.CharadesPhasePlayers:
		if err := round.RequirePlayers(g.Players, model.CharadesMinPlayers); err != nil {
			return err
		}
		g.Phase = model.CharadesPhaseTeams
		if g.Teams.Mode == model.TeamModeRandom {
			round.SplitRandom(s.random, g.Players, &g.Teams)
		}
	case model.CharadesPhaseTeams:
		return s.StartGame(g)
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// StartGame validates the teams and opens the game screen
func (s *Service) StartGame(g *model.CharadesGame) error {
	if err := requirePhase(g, model.CharadesPhaseTeams); err != nil {
		return err
	}
	if err := round.RequirePlayers(g.Players, model.CharadesMinPlayers); err != nil {
		return err
	}
	if err := round.PrepareTeams(s.random, g.Players, &g.Teams); err != nil {
		return err
	}
	g.Phase = model.CharadesPhaseGame
	round.ResetTimer(&g.Timer)

	s.logger.Info("charades started",
		slog.Int("players", len(g.Players)),
		slog.String("mode", string(g.Teams.Mode)),
	)
	return nil
}

// Back steps backwards. Team scores survive, so a game can be resumed.
func (s *Service) Back(g *model.CharadesGame) error {
	switch g.Phase {
	case model.CharadesPhasePlayers:
		g.Phase = model.CharadesPhaseRules
	case model.CharadesPhaseTeams:
		g.Phase = model.CharadesPhasePlayers
	case model.CharadesPhaseGame:
		g.Phase = model.CharadesPhaseTeams
		round.PauseTimer(&g.Timer)
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Exit returns to the rules with the current word cleared. Scores are kept.
func (s *Service) Exit(g *model.CharadesGame) {
	g.Phase = model.CharadesPhaseRules
	g.CurrentWord = ""
	g.WordRevealed = false
	round.ResetTimer(&g.Timer)
}

// AddPlayer adds a player during setup
func (s *Service) AddPlayer(g *model.CharadesGame, name string, now time.Time) (*model.Player, error) {
	if err := requirePhase(g, model.CharadesPhaseRules, model.CharadesPhasePlayers, model.CharadesPhaseTeams); err != nil {
		return nil, err
	}
	return round.AddPlayer(&g.Players, name, now)
}

// RemovePlayer removes a player and their team assignment during setup
func (s *Service) RemovePlayer(g *model.CharadesGame, id model.PlayerID) error {
	if err := requirePhase(g, model.CharadesPhaseRules, model.CharadesPhasePlayers, model.CharadesPhaseTeams); err != nil {
		return err
	}
	round.RemovePlayer(&g.Players, &g.Teams, id)
	return nil
}

// SetTeamMode switches between random and custom teams. Switching to random
// deals a fresh split.
func (s *Service) SetTeamMode(g *model.CharadesGame, mode model.TeamMode) error {
	if err := requirePhase(g, model.CharadesPhaseTeams); err != nil {
		return err
	}
	if err := round.SetMode(&g.Teams, mode); err != nil {
		return err
	}
	if mode == model.TeamModeRandom {
		round.SplitRandom(s.random, g.Players, &g.Teams)
	}
	return nil
}

// RegenerateTeams reshuffles the random split
func (s *Service) RegenerateTeams(g *model.CharadesGame) error {
	if err := requirePhase(g, model.CharadesPhaseTeams); err != nil {
		return err
	}
	if g.Teams.Mode != model.TeamModeRandom {
		return model.ErrInvalidSetting
	}
	round.SplitRandom(s.random, g.Players, &g.Teams)
	return nil
}

// AssignTeam puts a player on a team in custom mode
func (s *Service) AssignTeam(g *model.CharadesGame, id model.PlayerID, team int) error {
	if err := requirePhase(g, model.CharadesPhaseTeams); err != nil {
		return err
	}
	if g.Teams.Mode != model.TeamModeCustom {
		return model.ErrInvalidSetting
	}
	return round.Assign(g.Players, &g.Teams, id, team)
}

// RenameTeam sets a team name
func (s *Service) RenameTeam(g *model.CharadesGame, team int, name string) error {
	if err := requirePhase(g, model.CharadesPhaseTeams, model.CharadesPhaseGame); err != nil {
		return err
	}
	return round.Rename(&g.Teams, team, name)
}

// PickWord draws a random word, hidden until revealed
func (s *Service) PickWord(g *model.CharadesGame) (string, error) {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return "", err
	}
	list := g.Words
	if len(list) == 0 {
		list = words.FallbackCharades
	}
	g.CurrentWord = list[s.random.Intn(len(list))]
	g.WordRevealed = false
	return g.CurrentWord, nil
}

// ToggleWord flips the word card. With no word yet it draws one and shows it.
func (s *Service) ToggleWord(g *model.CharadesGame) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	if g.CurrentWord == "" {
		if _, err := s.PickWord(g); err != nil {
			return err
		}
		g.WordRevealed = true
		return nil
	}
	g.WordRevealed = !g.WordRevealed
	return nil
}

// AdjustScore adds delta to a team score, never going below zero
func (s *Service) AdjustScore(g *model.CharadesGame, team, delta int) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	return round.AdjustScore(&g.Teams, team, delta)
}

// SetTimerDuration changes the acting time
func (s *Service) SetTimerDuration(g *model.CharadesGame, seconds int) error {
	if err := requirePhase(g, model.CharadesPhaseTeams, model.CharadesPhaseGame); err != nil {
		return err
	}
	return round.SetDiscussionDuration(&g.Timer, seconds)
}

// StartTimer starts the acting time from its full length
func (s *Service) StartTimer(g *model.CharadesGame, now time.Time) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	round.StartTimer(&g.Timer, now)
	return nil
}

// PauseTimer pauses the acting time
func (s *Service) PauseTimer(g *model.CharadesGame) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	round.PauseTimer(&g.Timer)
	return nil
}

// ResumeTimer continues the acting time
func (s *Service) ResumeTimer(g *model.CharadesGame, now time.Time) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	round.ResumeTimer(&g.Timer, now)
	return nil
}

// ResetTimer restores the full acting time, stopped
func (s *Service) ResetTimer(g *model.CharadesGame) error {
	if err := requirePhase(g, model.CharadesPhaseGame); err != nil {
		return err
	}
	round.ResetTimer(&g.Timer)
	return nil
}

// Advance applies elapsed time to the acting timer
func (s *Service) Advance(g *model.CharadesGame, now time.Time) bool {
	return round.AdvanceTimer(&g.Timer, now, g.Phase == model.CharadesPhaseGame)
}

// TimerActive reports whether the game needs periodic ticks
func (s *Service) TimerActive(g *model.CharadesGame) bool {
	return g.Timer.Running && g.Phase == model.CharadesPhaseGame
}
