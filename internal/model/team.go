package model

// TeamMode selects how players are split into two teams
type TeamMode string

const (
	TeamModeRandom TeamMode = "random"
	TeamModeCustom TeamMode = "custom"
)

// Default team names
const (
	DefaultTeamAName = "Team 1"
	DefaultTeamBName = "Team 2"
)

// Teams partitions the roster into exactly two named groups.
// A player id maps to at most one team index (0 or 1).
type Teams struct {
	Mode       TeamMode         `json:"mode"`
	Names      [2]string        `json:"names"`
	Assignment map[PlayerID]int `json:"assignment"`
	Scores     [2]int           `json:"scores"`
}

// NewTeams returns teams in random mode with default names
func NewTeams() Teams {
	return Teams{
		Mode:       TeamModeRandom,
		Names:      [2]string{DefaultTeamAName, DefaultTeamBName},
		Assignment: make(map[PlayerID]int),
	}
}

// TeamOf returns the team index for a player and whether they are assigned
func (t *Teams) TeamOf(id PlayerID) (int, bool) {
	team, ok := t.Assignment[id]
	return team, ok
}

// Members returns the ids assigned to a team, in roster order
func (t *Teams) Members(roster Roster, team int) []PlayerID {
	var ids []PlayerID
	for _, p := range roster {
		if got, ok := t.Assignment[p.ID]; ok && got == team {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
