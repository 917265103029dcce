package round

import (
	"strings"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
)

// SplitRandom shuffles the roster and splits it at ceil(n/2).
// The new split replaces any previous assignment.
func SplitRandom(r random.Random, roster model.Roster, teams *model.Teams) {
	shuffled := random.Shuffle(r, roster.IDs())
	mid := (len(shuffled) + 1) / 2

	teams.Assignment = make(map[model.PlayerID]int, len(shuffled))
	for i, id := range shuffled {
		if i < mid {
			teams.Assignment[id] = 0
		} else {
			teams.Assignment[id] = 1
		}
	}
}

// Assign puts a player on team 0 or 1 in custom mode
func Assign(roster model.Roster, teams *model.Teams, id model.PlayerID, team int) error {
	if team != 0 && team != 1 {
		return model.ErrInvalidTeam
	}
	if roster.Find(id) == nil {
		return model.ErrPlayerNotFound
	}
	if teams.Assignment == nil {
		teams.Assignment = make(map[model.PlayerID]int)
	}
	teams.Assignment[id] = team
	return nil
}

// SetMode switches between random and custom team building
func SetMode(teams *model.Teams, mode model.TeamMode) error {
	if mode != model.TeamModeRandom && mode != model.TeamModeCustom {
		return model.ErrInvalidSetting
	}
	teams.Mode = mode
	return nil
}

// Rename sets a team's display name; blank names fall back to the default
func Rename(teams *model.Teams, team int, name string) error {
	if team != 0 && team != 1 {
		return model.ErrInvalidTeam
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = [2]string{model.DefaultTeamAName, model.DefaultTeamBName}[team]
	}
	teams.Names[team] = name
	return nil
}

// ValidateTeams checks the start-of-game invariant: everyone is assigned and
// neither team is empty.
func ValidateTeams(roster model.Roster, teams *model.Teams) error {
	for _, p := range roster {
		if _, ok := teams.Assignment[p.ID]; !ok {
			return model.ErrUnassignedPlayers
		}
	}
	if len(teams.Members(roster, 0)) == 0 || len(teams.Members(roster, 1)) == 0 {
		return model.ErrEmptyTeam
	}
	return nil
}

// PrepareTeams readies teams for game start.
// Random mode re-splits when the roster changed since the last split.
func PrepareTeams(r random.Random, roster model.Roster, teams *model.Teams) error {
	if teams.Mode == model.TeamModeRandom && !splitCovers(roster, teams) {
		SplitRandom(r, roster, teams)
	}
	return ValidateTeams(roster, teams)
}

// AdjustScore applies a delta to a team score, flooring at zero
func AdjustScore(teams *model.Teams, team, delta int) error {
	if team != 0 && team != 1 {
		return model.ErrInvalidTeam
	}
	teams.Scores[team] = max(0, teams.Scores[team]+delta)
	return nil
}

func splitCovers(roster model.Roster, teams *model.Teams) bool {
	if len(teams.Assignment) != len(roster) {
		return false
	}
	for _, p := range roster {
		if _, ok := teams.Assignment[p.ID]; !ok {
			return false
		}
	}
	return true
}
