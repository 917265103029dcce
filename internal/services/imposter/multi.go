package imposter

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
)

// NewMultiDeviceGame creates a lobby with a fresh join code
func (s *Service) NewMultiDeviceGame() *model.MultiDeviceGame {
	return model.NewMultiDeviceGame(s.random.String(model.GameCodeLength, model.GameCodeAlphabet))
}

func requireMultiPhase(g *model.MultiDeviceGame, phase model.MultiDevicePhase) error {
	if g.Phase != phase {
		return model.ErrInvalidPhase
	}
	return nil
}

// JoinPlayer adds a player to the lobby
func (s *Service) JoinPlayer(g *model.MultiDeviceGame, name string, now time.Time) (*model.Player, error) {
	if err := requireMultiPhase(g, model.MultiDevicePhaseLobby); err != nil {
		return nil, err
	}
	return round.AddPlayer(&g.Players, name, now)
}

// LeavePlayer removes a player from the lobby
func (s *Service) LeavePlayer(g *model.MultiDeviceGame, id model.PlayerID) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseLobby); err != nil {
		return err
	}
	round.RemovePlayer(&g.Players, nil, id)
	return nil
}

// ToggleReady flips a player's ready flag in the lobby
func (s *Service) ToggleReady(g *model.MultiDeviceGame, id model.PlayerID) (*model.Player, error) {
	if err := requireMultiPhase(g, model.MultiDevicePhaseLobby); err != nil {
		return nil, err
	}
	p := g.Players.Find(id)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	p.IsReady = !p.IsReady
	return p, nil
}

// ConfigureMultiDevice applies lobby settings. Zero values leave a field
// unchanged.
func (s *Service) ConfigureMultiDevice(g *model.MultiDeviceGame, settings model.MultiDeviceSettings) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseLobby); err != nil {
		return err
	}
	next := g.Settings
	if settings.Rounds != 0 {
		if settings.Rounds < model.ImposterMinRounds || settings.Rounds > model.ImposterMaxRounds {
			return model.ErrInvalidSetting
		}
		next.Rounds = settings.Rounds
	}
	if settings.ClueTime != 0 {
		if settings.ClueTime < model.MultiDeviceMinClueTime {
			return model.ErrInvalidSetting
		}
		next.ClueTime = settings.ClueTime
	}
	if settings.VotingTime != 0 {
		if settings.VotingTime < model.MultiDeviceMinVotingTime {
			return model.ErrInvalidSetting
		}
		next.VotingTime = settings.VotingTime
	}
	if settings.Locale != "" {
		if err := setLocale(&next.Locale, settings.Locale); err != nil {
			return err
		}
	}
	g.Settings = next
	round.SetDuration(&g.Timer, next.ClueTime)
	return nil
}

// StartMultiDevice deals round one once at least three players are ready
func (s *Service) StartMultiDevice(ctx context.Context, g *model.MultiDeviceGame) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseLobby); err != nil {
		return err
	}
	if err := round.RequirePlayers(g.Players, model.ImposterMinPlayers); err != nil {
		return err
	}
	for _, p := range g.Players {
		if !p.IsReady {
			return model.ErrNotAllReady
		}
	}

	g.WordPairs = s.fetchPairs(ctx, g.Settings.Rounds, g.Settings.Locale)
	g.CurrentRound = 1
	if err := s.dealMulti(g); err != nil {
		return err
	}

	s.logger.Info("multi-device game started",
		slog.String("code", g.Code),
		slog.Int("players", len(g.Players)),
	)
	return nil
}

func (s *Service) dealMulti(g *model.MultiDeviceGame) error {
	pair, err := round.PairForRound(g.WordPairs, g.CurrentRound)
	if err != nil {
		return err
	}
	round.AssignWords(s.random, &g.Players, pair)
	g.CurrentPair = &pair
	g.CurrentPlayerIndex = 0
	g.Phase = model.MultiDevicePhaseWordAssignment
	round.SetDuration(&g.Timer, g.Settings.ClueTime)
	return nil
}

// ShowWord reveals a player's word on their device
func (s *Service) ShowWord(g *model.MultiDeviceGame, id model.PlayerID) (*model.Player, error) {
	if err := requireMultiPhase(g, model.MultiDevicePhaseWordAssignment); err != nil {
		return nil, err
	}
	return round.Reveal(g.Players, id)
}

// StartClues opens the clue phase once everyone has seen their word
func (s *Service) StartClues(g *model.MultiDeviceGame, now time.Time) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseWordAssignment); err != nil {
		return err
	}
	if !round.AllRevealed(g.Players) {
		return model.ErrWordsUnread
	}
	g.Phase = model.MultiDevicePhaseClues
	g.CurrentPlayerIndex = 0
	round.SetDuration(&g.Timer, g.Settings.ClueTime)
	round.StartTimer(&g.Timer, now)
	return nil
}

// NextClue passes the clue to the next player; after the last player the
// voting phase starts with its own timer.
func (s *Service) NextClue(g *model.MultiDeviceGame, now time.Time) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseClues); err != nil {
		return err
	}
	if g.CurrentPlayerIndex < len(g.Players)-1 {
		g.CurrentPlayerIndex++
		round.StartTimer(&g.Timer, now)
		return nil
	}
	g.Phase = model.MultiDevicePhaseVoting
	round.SetDuration(&g.Timer, g.Settings.VotingTime)
	round.StartTimer(&g.Timer, now)
	return nil
}

// Vote records a player's accusation. Votes may be changed until voting
// finishes; voting for yourself is rejected.
func (s *Service) Vote(g *model.MultiDeviceGame, voter, target model.PlayerID) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseVoting); err != nil {
		return err
	}
	p := g.Players.Find(voter)
	if p == nil || g.Players.Find(target) == nil {
		return model.ErrPlayerNotFound
	}
	if voter == target {
		return model.ErrInvalidVote
	}
	p.HasVoted = true
	p.VoteFor = target
	return nil
}

// FinishVoting scores the round: an imposter nobody voted for earns 3,
// every normal player who voted for an imposter earns 1.
func (s *Service) FinishVoting(g *model.MultiDeviceGame) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseVoting); err != nil {
		return err
	}

	votes := make(map[model.PlayerID]int)
	for _, p := range g.Players {
		if p.HasVoted {
			votes[p.VoteFor]++
		}
	}
	for i := range g.Players {
		p := &g.Players[i]
		if p.IsImposter {
			if votes[p.ID] == 0 {
				p.Points += 3
			}
			continue
		}
		if target := g.Players.Find(p.VoteFor); p.HasVoted && target != nil && target.IsImposter {
			p.Points++
		}
	}

	round.PauseTimer(&g.Timer)
	g.Phase = model.MultiDevicePhaseResults
	return nil
}

// NextRound deals the next round, or ends the game after the last one
func (s *Service) NextRound(g *model.MultiDeviceGame) error {
	if err := requireMultiPhase(g, model.MultiDevicePhaseResults); err != nil {
		return err
	}
	if g.CurrentRound >= g.Settings.Rounds {
		g.Phase = model.MultiDevicePhaseGameOver
		round.ResetTimer(&g.Timer)
		return nil
	}
	g.CurrentRound++
	return s.dealMulti(g)
}

// ExitMultiDevice returns everyone to the lobby. Scores are kept.
func (s *Service) ExitMultiDevice(g *model.MultiDeviceGame) {
	g.Phase = model.MultiDevicePhaseLobby
	g.CurrentRound = 1
	g.CurrentPlayerIndex = 0
	g.CurrentPair = nil
	for i := range g.Players {
		g.Players[i].ClearRound()
		g.Players[i].IsReady = false
	}
	round.SetDuration(&g.Timer, g.Settings.ClueTime)
}

// AdvanceMultiDevice applies elapsed time to the clue or voting timer
func (s *Service) AdvanceMultiDevice(g *model.MultiDeviceGame, now time.Time) bool {
	active := g.Phase == model.MultiDevicePhaseClues || g.Phase == model.MultiDevicePhaseVoting
	return round.AdvanceTimer(&g.Timer, now, active)
}

// MultiDeviceTimerActive reports whether the game needs periodic ticks
func (s *Service) MultiDeviceTimerActive(g *model.MultiDeviceGame) bool {
	active := g.Phase == model.MultiDevicePhaseClues || g.Phase == model.MultiDevicePhaseVoting
	return g.Timer.Running && active
}
