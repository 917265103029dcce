// Package mafia deals secret roles for a pass-and-play mafia table and runs
// the day discussion timer.
package mafia

import (
	"log/slog"
	"time"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
)

// Service runs mafia role assignment
type Service struct {
	random random.Random
	logger *slog.Logger
}

// NewService creates a mafia service
func NewService(r random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: r,
		logger: logger.With(slog.String("component", "mafia")),
	}
}

func requirePhase(g *model.MafiaGame, phases ...model.MafiaPhase) error {
	for _, p := range phases {
		if g.Phase == p {
			return nil
		}
	}
	return model.ErrInvalidPhase
}

// Next moves forward through the setup steps
func (s *Service) Next(g *model.MafiaGame) error {
	switch g.Phase {
	case model.MafiaPhaseRules:
		g.Phase = model.MafiaPhasePlayers
	case model.MafiaPhasePlayers:
		if err := round.RequirePlayers(g.Players, model.MafiaMinPlayers); err != nil {
			return err
		}
		g.Phase = model.MafiaPhaseRoleSelection
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Back steps backwards. From role assignment or the finished table it
// returns to role selection so roles can be dealt again.
func (s *Service) Back(g *model.MafiaGame) error {
	switch g.Phase {
	case model.MafiaPhasePlayers:
		g.Phase = model.MafiaPhaseRules
	case model.MafiaPhaseRoleSelection:
		g.Phase = model.MafiaPhasePlayers
	case model.MafiaPhaseRoleAssignment, model.MafiaPhaseDone:
		g.Phase = model.MafiaPhaseRoleSelection
		round.ResetTimer(&g.Timer)
	default:
		return model.ErrInvalidPhase
	}
	return nil
}

// Exit returns the table to the rules with roles cleared
func (s *Service) Exit(g *model.MafiaGame) {
	g.Phase = model.MafiaPhaseRules
	g.CurrentPlayerIndex = 0
	g.PickedPlayer = ""
	for i := range g.Players {
		g.Players[i].ClearRound()
	}
	round.ResetTimer(&g.Timer)
}

// AddPlayer adds a player during setup
func (s *Service) AddPlayer(g *model.MafiaGame, name string, now time.Time) (*model.Player, error) {
	if err := requirePhase(g, model.MafiaPhaseRules, model.MafiaPhasePlayers); err != nil {
		return nil, err
	}
	p, err := round.AddPlayer(&g.Players, name, now)
	if err != nil {
		return nil, err
	}
	g.Optional = round.AllowedOptional(len(g.Players), g.Optional)
	return p, nil
}

// RemovePlayer removes a player during setup. Optional roles the smaller
// table can no longer support are switched off.
func (s *Service) RemovePlayer(g *model.MafiaGame, id model.PlayerID) error {
	if err := requirePhase(g, model.MafiaPhaseRules, model.MafiaPhasePlayers); err != nil {
		return err
	}
	round.RemovePlayer(&g.Players, nil, id)
	g.Optional = round.AllowedOptional(len(g.Players), g.Optional)
	return nil
}

// ToggleRole switches an optional role. Tables of three or fewer cannot use
// them; at exactly four players enabling one disables the other.
func (s *Service) ToggleRole(g *model.MafiaGame, role model.Role) error {
	if err := requirePhase(g, model.MafiaPhaseRoleSelection); err != nil {
		return err
	}
	n := len(g.Players)
	if n <= 3 {
		return model.ErrRoleDisabled
	}
	onlyOne := n == 4

	switch role {
	case model.RoleDoctor:
		if onlyOne {
			g.Optional.Prostitute = false
		}
		g.Optional.Doctor = !g.Optional.Doctor
	case model.RoleProstitute:
		if onlyOne {
			g.Optional.Doctor = false
		}
		g.Optional.Prostitute = !g.Optional.Prostitute
	default:
		return model.ErrInvalidSetting
	}
	return nil
}

// SetShufflePlayers chooses the zip policy used when dealing roles
func (s *Service) SetShufflePlayers(g *model.MafiaGame, shuffle bool) error {
	if err := requirePhase(g, model.MafiaPhaseRoleSelection); err != nil {
		return err
	}
	g.ShufflePlayers = shuffle
	return nil
}

// Policy returns the zip policy for a table
func Policy(g *model.MafiaGame) round.ZipPolicy {
	if g.ShufflePlayers {
		return round.ZipShuffledPlayers
	}
	return round.ZipUnshuffledPlayers
}

// AssignRoles deals the role pool and moves to the reveal step
func (s *Service) AssignRoles(g *model.MafiaGame) error {
	if err := requirePhase(g, model.MafiaPhaseRoleSelection); err != nil {
		return err
	}
	if err := round.AssignRoles(s.random, &g.Players, g.Optional, Policy(g)); err != nil {
		return err
	}
	g.Phase = model.MafiaPhaseRoleAssignment
	g.CurrentPlayerIndex = 0
	g.PickedPlayer = ""

	s.logger.Info("roles assigned",
		slog.Int("players", len(g.Players)),
		slog.Int("mafia", round.NumMafia(len(g.Players))),
		slog.Bool("doctor", g.Optional.Doctor),
		slog.Bool("prostitute", g.Optional.Prostitute),
	)
	return nil
}

// RevealRole shows a player their role
func (s *Service) RevealRole(g *model.MafiaGame, id model.PlayerID) (*model.Player, error) {
	if err := requirePhase(g, model.MafiaPhaseRoleAssignment); err != nil {
		return nil, err
	}
	p, err := round.Reveal(g.Players, id)
	if err != nil {
		return nil, err
	}
	if idx := g.Players.Index(id); idx >= g.CurrentPlayerIndex {
		g.CurrentPlayerIndex = min(idx+1, len(g.Players)-1)
	}
	return p, nil
}

// FinishAssignment starts the day once everyone has seen their role
func (s *Service) FinishAssignment(g *model.MafiaGame) error {
	if err := requirePhase(g, model.MafiaPhaseRoleAssignment); err != nil {
		return err
	}
	if !round.AllRevealed(g.Players) {
		return model.ErrRolesUnread
	}
	g.Phase = model.MafiaPhaseDone
	round.ResetTimer(&g.Timer)
	return nil
}

// PickRandomPlayer chooses someone at random, e.g. to open the discussion
func (s *Service) PickRandomPlayer(g *model.MafiaGame) (*model.Player, error) {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return nil, err
	}
	if len(g.Players) == 0 {
		return nil, model.ErrNotEnoughPlayers
	}
	p := &g.Players[s.random.Intn(len(g.Players))]
	g.PickedPlayer = p.ID
	return p, nil
}

// SetTimerDuration changes the discussion length
func (s *Service) SetTimerDuration(g *model.MafiaGame, seconds int) error {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return err
	}
	return round.SetDiscussionDuration(&g.Timer, seconds)
}

// StartTimer starts the discussion from its full length
func (s *Service) StartTimer(g *model.MafiaGame, now time.Time) error {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return err
	}
	round.StartTimer(&g.Timer, now)
	return nil
}

// PauseTimer pauses the discussion
func (s *Service) PauseTimer(g *model.MafiaGame) error {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return err
	}
	round.PauseTimer(&g.Timer)
	return nil
}

// ResumeTimer continues the discussion
func (s *Service) ResumeTimer(g *model.MafiaGame, now time.Time) error {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return err
	}
	round.ResumeTimer(&g.Timer, now)
	return nil
}

// ResetTimer restores the full discussion length, stopped
func (s *Service) ResetTimer(g *model.MafiaGame) error {
	if err := requirePhase(g, model.MafiaPhaseDone); err != nil {
		return err
	}
	round.ResetTimer(&g.Timer)
	return nil
}

// Advance applies elapsed time to the discussion timer
func (s *Service) Advance(g *model.MafiaGame, now time.Time) bool {
	return round.AdvanceTimer(&g.Timer, now, g.Phase == model.MafiaPhaseDone)
}

// TimerActive reports whether the table needs periodic ticks
func (s *Service) TimerActive(g *model.MafiaGame) bool {
	return g.Timer.Running && g.Phase == model.MafiaPhaseDone
}
