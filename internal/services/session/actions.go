package session

import (
	"context"
	"sort"
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/synonyms"
)

// Params carries the arguments of a game intent. Each action reads only
// the fields it needs.
type Params struct {
	PlayerID model.PlayerID `json:"player_id,omitempty"`
	Target   model.PlayerID `json:"target,omitempty"`
	Name     string         `json:"name,omitempty"`
	Team     int            `json:"team,omitempty"`
	Delta    int            `json:"delta,omitempty"`
	Points   int            `json:"points,omitempty"`
	Rounds   int            `json:"rounds,omitempty"`
	Seconds  int            `json:"seconds,omitempty"`
	Locale   string         `json:"locale,omitempty"`
	Mode     model.TeamMode `json:"mode,omitempty"`
	Role     model.Role     `json:"role,omitempty"`
	Enabled  bool           `json:"enabled,omitempty"`

	Settings *model.MultiDeviceSettings `json:"settings,omitempty"`
	Reading  *synonyms.Reading          `json:"reading,omitempty"`
}

type handler func(ctx context.Context, s *model.Session, p Params, now time.Time) error

// Actions lists the intents a game accepts, sorted by name
func (c *Controller) Actions(game model.GameType) []string {
	names := make([]string, 0, len(c.actions[game]))
	for name := range c.actions[game] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Controller) buildActions() map[model.GameType]map[string]handler {
	return map[model.GameType]map[string]handler{
		model.GameImposter:    c.imposterActions(),
		model.GameMultiDevice: c.multiDeviceActions(),
		model.GameMafia:       c.mafiaActions(),
		model.GameCharades:    c.charadesActions(),
		model.GameSynonyms:    c.synonymsActions(),
	}
}

func (c *Controller) imposterActions() map[string]handler {
	svc := c.games.Imposter
	return map[string]handler{
		"next": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Next(s.Imposter)
		},
		"back": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Back(s.Imposter)
		},
		"exit": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			svc.Exit(s.Imposter)
			return nil
		},
		"set_rounds": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetRounds(s.Imposter, p.Rounds)
		},
		"set_round_time": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetRoundTime(s.Imposter, p.Seconds)
		},
		"set_locale": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetLocale(s.Imposter, p.Locale)
		},
		"start": func(ctx context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.StartGame(ctx, s.Imposter)
		},
		"reveal": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			_, err := svc.RevealWord(s.Imposter, p.PlayerID)
			return err
		},
		"begin": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.BeginGameplay(s.Imposter, now)
		},
		"pause_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.PauseTimer(s.Imposter)
		},
		"resume_timer": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.ResumeTimer(s.Imposter, now)
		},
		"reset_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.ResetTimer(s.Imposter)
		},
		"finish_round": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.FinishRound(s.Imposter)
		},
		"show_results": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.ShowResults(s.Imposter)
		},
		"set_round_points": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetRoundPoints(s.Imposter, p.PlayerID, p.Points)
		},
		"save_round_points": func(ctx context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.SaveRoundPoints(ctx, s.Imposter)
		},
	}
}

func (c *Controller) multiDeviceActions() map[string]handler {
	svc := c.games.Imposter
	return map[string]handler{
		"toggle_ready": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			_, err := svc.ToggleReady(s.MultiDevice, p.PlayerID)
			return err
		},
		"configure": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			if p.Settings == nil {
				return model.ErrInvalidSetting
			}
			return svc.ConfigureMultiDevice(s.MultiDevice, *p.Settings)
		},
		"start": func(ctx context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.StartMultiDevice(ctx, s.MultiDevice)
		},
		"show_word": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			_, err := svc.ShowWord(s.MultiDevice, p.PlayerID)
			return err
		},
		"start_clues": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.StartClues(s.MultiDevice, now)
		},
		"next_clue": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.NextClue(s.MultiDevice, now)
		},
		"vote": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.Vote(s.MultiDevice, p.PlayerID, p.Target)
		},
		"finish_voting": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.FinishVoting(s.MultiDevice)
		},
		"next_round": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.NextRound(s.MultiDevice)
		},
		"exit": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			svc.ExitMultiDevice(s.MultiDevice)
			return nil
		},
	}
}

func (c *Controller) mafiaActions() map[string]handler {
	svc := c.games.Mafia
	return map[string]handler{
		"next": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Next(s.Mafia)
		},
		"back": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Back(s.Mafia)
		},
		"exit": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			svc.Exit(s.Mafia)
			return nil
		},
		"toggle_role": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.ToggleRole(s.Mafia, p.Role)
		},
		"set_shuffle": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetShufflePlayers(s.Mafia, p.Enabled)
		},
		"assign_roles": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.AssignRoles(s.Mafia)
		},
		"reveal": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			_, err := svc.RevealRole(s.Mafia, p.PlayerID)
			return err
		},
		"finish_assignment": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.FinishAssignment(s.Mafia)
		},
		"pick_random": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			_, err := svc.PickRandomPlayer(s.Mafia)
			return err
		},
		"set_timer": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetTimerDuration(s.Mafia, p.Seconds)
		},
		"start_timer": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.StartTimer(s.Mafia, now)
		},
		"pause_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.PauseTimer(s.Mafia)
		},
		"resume_timer": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.ResumeTimer(s.Mafia, now)
		},
		"reset_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.ResetTimer(s.Mafia)
		},
	}
}

func (c *Controller) charadesActions() map[string]handler {
	svc := c.games.Charades
	return map[string]handler{
		"next": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Next(s.Charades)
		},
		"back": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Back(s.Charades)
		},
		"exit": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			svc.Exit(s.Charades)
			return nil
		},
		"set_locale": func(ctx context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetLocale(ctx, s.Charades, p.Locale)
		},
		"set_team_mode": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetTeamMode(s.Charades, p.Mode)
		},
		"regenerate_teams": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.RegenerateTeams(s.Charades)
		},
		"assign_team": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.AssignTeam(s.Charades, p.PlayerID, p.Team)
		},
		"rename_team": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.RenameTeam(s.Charades, p.Team, p.Name)
		},
		"start": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.StartGame(s.Charades)
		},
		"pick_word": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			_, err := svc.PickWord(s.Charades)
			return err
		},
		"toggle_word": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.ToggleWord(s.Charades)
		},
		"adjust_score": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.AdjustScore(s.Charades, p.Team, p.Delta)
		},
		"set_timer": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetTimerDuration(s.Charades, p.Seconds)
		},
		"start_timer": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.StartTimer(s.Charades, now)
		},
		"pause_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.PauseTimer(s.Charades)
		},
		"resume_timer": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.ResumeTimer(s.Charades, now)
		},
		"reset_timer": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.ResetTimer(s.Charades)
		},
	}
}

func (c *Controller) synonymsActions() map[string]handler {
	svc := c.games.Synonyms
	return map[string]handler{
		"next": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Next(s.Synonyms)
		},
		"back": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.Back(s.Synonyms)
		},
		"exit": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			svc.Exit(s.Synonyms)
			return nil
		},
		"set_locale": func(ctx context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetLocale(ctx, s.Synonyms, p.Locale)
		},
		"set_play_in_teams": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetPlayInTeams(s.Synonyms, p.Enabled)
		},
		"set_team_mode": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetTeamMode(s.Synonyms, p.Mode)
		},
		"regenerate_teams": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.RegenerateTeams(s.Synonyms)
		},
		"assign_team": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.AssignTeam(s.Synonyms, p.PlayerID, p.Team)
		},
		"rename_team": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.RenameTeam(s.Synonyms, p.Team, p.Name)
		},
		"set_rounds": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetRounds(s.Synonyms, p.Rounds)
		},
		"set_round_time": func(_ context.Context, s *model.Session, p Params, _ time.Time) error {
			return svc.SetRoundTime(s.Synonyms, p.Seconds)
		},
		"start": func(_ context.Context, s *model.Session, _ Params, _ time.Time) error {
			return svc.StartGame(s.Synonyms)
		},
		"start_turn": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.StartTurn(s.Synonyms, now)
		},
		"sense": func(_ context.Context, s *model.Session, p Params, now time.Time) error {
			if p.Reading == nil {
				return model.ErrInvalidSetting
			}
			return svc.Sense(s.Synonyms, *p.Reading, now)
		},
		"next_turn": func(_ context.Context, s *model.Session, _ Params, now time.Time) error {
			return svc.NextTurn(s.Synonyms, now)
		},
	}
}
