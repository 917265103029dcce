// Package synonyms runs the tilt-to-answer word game: one player holds the
// phone to their forehead in landscape while the others describe the word,
// and tilting the phone marks it guessed or passed.
package synonyms

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
	"github.com/mcoot/partygames/internal/services/words"
)

// WordSupplier provides the synonyms word list
type WordSupplier interface {
	SynonymsWords(ctx context.Context, limit int, locale string) ([]string, words.Source)
}

// Service runs synonyms sessions
type Service struct {
	random random.Random
	words  WordSupplier
	logger *slog.Logger
}

// NewService creates a synonyms service
func NewService(r random.Random, words WordSupplier, logger *slog.Logger) *Service {
	return &Service{
		random: r,
		words:  words,
		logger: logger.With(slog.String("component", "synonyms")),
	}
}

func requireStep(g *model.SynonymsGame, steps ...model.SynonymsStep) error {
	if slices.Contains(steps, g.Step) {
		return nil
	}
	return model.ErrInvalidPhase
}

// LoadWords fetches the word list for the game's locale
func (s *Service) LoadWords(ctx context.Context, g *model.SynonymsGame) {
	list, source := s.words.SynonymsWords(ctx, model.SynonymsWordLimit, g.Locale)
	g.Words = list
	s.logger.Debug("synonyms words loaded",
		slog.Int("count", len(list)),
		slog.String("source", string(source)),
	)
}

// SetLocale changes the word language and reloads the list
func (s *Service) SetLocale(ctx context.Context, g *model.SynonymsGame, locale string) error {
	locale = model.NormalizeLocale(locale)
	if !model.IsSupportedLocale(locale) {
		return model.ErrInvalidLocale
	}
	g.Locale = locale
	s.LoadWords(ctx, g)
	return nil
}

// Next moves forward through the setup steps. Solo play skips the teams step.
func (s *Service) Next(g *model.SynonymsGame) error {
	switch g.Step {
	case model.SynonymsStepRules:
		g.Step = model.SynonymsStepPlayers
	case model.SynonymsStepPlayers:
		if err := round.RequirePlayers(g.Players, model.SynonymsMinPlayers); err != nil {
			return err
		}
		g.Step = model.SynonymsStepTeamsChoice
	case model.SynonymsStepTeamsChoice:
		if !g.PlayInTeams {
			g.Step = model.SynonymsStepRoundsAndTime
			return nil
		}
		g.Step = model.SynonymsStepTeams
		if g.Teams.Mode == model.TeamModeRandom {
			round.SplitRandom(s.random, g.Players, &g.Teams)
		}
	case model.SynonymsStepTeams:
		if err := round.PrepareTeams(s.random, g.Players, &g.Teams); err != nil {
			return err
		}
		g.Step = model.SynonymsStepRoundsAndTime
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Back steps backwards through setup. From the game it leaves to the rules.
func (s *Service) Back(g *model.SynonymsGame) error {
	switch g.Step {
	case model.SynonymsStepPlayers:
		g.Step = model.SynonymsStepRules
	case model.SynonymsStepTeamsChoice:
		g.Step = model.SynonymsStepPlayers
	case model.SynonymsStepTeams:
		g.Step = model.SynonymsStepTeamsChoice
	case model.SynonymsStepRoundsAndTime:
		if g.PlayInTeams {
			g.Step = model.SynonymsStepTeams
		} else {
			g.Step = model.SynonymsStepTeamsChoice
		}
	case model.SynonymsStepGame:
		s.Exit(g)
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Exit abandons the game and returns to the rules. Scores reset on the next start.
func (s *Service) Exit(g *model.SynonymsGame) {
	g.Step = model.SynonymsStepRules
	g.Phase = model.SynonymsPhaseRotate
	g.Turn = model.SynonymsTurn{}
	g.Orientation = model.Orientation{}
}

// AddPlayer adds a player during setup
func (s *Service) AddPlayer(g *model.SynonymsGame, name string, now time.Time) (*model.Player, error) {
	if err := requireStep(g, model.SynonymsStepRules, model.SynonymsStepPlayers); err != nil {
		return nil, err
	}
	return round.AddPlayer(&g.Players, name, now)
}

// RemovePlayer removes a player and their team assignment during setup
func (s *Service) RemovePlayer(g *model.SynonymsGame, id model.PlayerID) error {
	if err := requireStep(g, model.SynonymsStepRules, model.SynonymsStepPlayers); err != nil {
		return err
	}
	round.RemovePlayer(&g.Players, &g.Teams, id)
	delete(g.PlayerScores, id)
	return nil
}

// SetPlayInTeams chooses between team and solo scoring
func (s *Service) SetPlayInTeams(g *model.SynonymsGame, teams bool) error {
	if err := requireStep(g, model.SynonymsStepTeamsChoice); err != nil {
		return err
	}
	g.PlayInTeams = teams
	return nil
}

// SetTeamMode switches between random and custom teams
func (s *Service) SetTeamMode(g *model.SynonymsGame, mode model.TeamMode) error {
	if err := requireStep(g, model.SynonymsStepTeams); err != nil {
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
func (s *Service) RegenerateTeams(g *model.SynonymsGame) error {
	if err := requireStep(g, model.SynonymsStepTeams); err != nil {
		return err
	}
	if g.Teams.Mode != model.TeamModeRandom {
		return model.ErrInvalidSetting
	}
	round.SplitRandom(s.random, g.Players, &g.Teams)
	return nil
}

// AssignTeam puts a player on a team in custom mode
func (s *Service) AssignTeam(g *model.SynonymsGame, id model.PlayerID, team int) error {
	if err := requireStep(g, model.SynonymsStepTeams); err != nil {
		return err
	}
	if g.Teams.Mode != model.TeamModeCustom {
		return model.ErrInvalidSetting
	}
	return round.Assign(g.Players, &g.Teams, id, team)
}

// RenameTeam sets a team name
func (s *Service) RenameTeam(g *model.SynonymsGame, team int, name string) error {
	if err := requireStep(g, model.SynonymsStepTeams); err != nil {
		return err
	}
	return round.Rename(&g.Teams, team, name)
}

// SetRounds sets how many times each player takes a turn
func (s *Service) SetRounds(g *model.SynonymsGame, rounds int) error {
	if err := requireStep(g, model.SynonymsStepRoundsAndTime); err != nil {
		return err
	}
	if rounds < model.SynonymsMinRounds || rounds > model.SynonymsMaxRounds {
		return model.ErrInvalidSetting
	}
	g.Rounds = rounds
	return nil
}

// SetRoundTime picks one of the turn length presets
func (s *Service) SetRoundTime(g *model.SynonymsGame, seconds int) error {
	if err := requireStep(g, model.SynonymsStepRoundsAndTime); err != nil {
		return err
	}
	if !slices.Contains(model.SynonymsTimePresets, seconds) {
		return model.ErrInvalidSetting
	}
	g.RoundTime = seconds
	return nil
}

// StartGame resets the scores and waits for the first player to rotate
func (s *Service) StartGame(g *model.SynonymsGame) error {
	if err := requireStep(g, model.SynonymsStepRoundsAndTime); err != nil {
		return err
	}
	if err := round.RequirePlayers(g.Players, model.SynonymsMinPlayers); err != nil {
		return err
	}
	if g.PlayInTeams {
		if err := round.PrepareTeams(s.random, g.Players, &g.Teams); err != nil {
			return err
		}
	}

	g.Step = model.SynonymsStepGame
	g.Phase = model.SynonymsPhaseRotate
	g.CurrentRound = 1
	g.CurrentPlayerIndex = 0
	g.PlayerScores = make(map[model.PlayerID]int, len(g.Players))
	g.Teams.Scores = [2]int{}
	g.Turn = model.SynonymsTurn{}
	g.Orientation = model.Orientation{}

	s.logger.Info("synonyms started",
		slog.Int("players", len(g.Players)),
		slog.Bool("teams", g.PlayInTeams),
		slog.Int("rounds", g.Rounds),
		slog.Int("round_time", g.RoundTime),
	)
	return nil
}

// CurrentPlayer returns the player whose turn it is
func CurrentPlayer(g *model.SynonymsGame) *model.Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return &g.Players[g.CurrentPlayerIndex]
}
