package session

import (
	"context"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/scoring"
)

// Results is the scoreboard of a session. Mafia keeps no score, so its
// results are empty.
type Results struct {
	Game      model.GameType      `json:"game"`
	Standings []scoring.Standing  `json:"standings,omitempty"`
	Winners   []model.PlayerID    `json:"winners,omitempty"`
	Teams     *scoring.TeamResult `json:"teams,omitempty"`
}

// Results returns the current scoreboard of a session
func (c *Controller) Results(ctx context.Context, id model.SessionID) (*Results, error) {
	s, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &Results{Game: s.Game}
	switch s.Game {
	case model.GameImposter, model.GameMultiDevice:
		res.Standings = c.scoring.Standings(s.Players())
	case model.GameCharades:
		teams := c.scoring.TeamWinner(s.Charades.Teams)
		res.Teams = &teams
	case model.GameSynonyms:
		g := s.Synonyms
		res.Standings = c.scoring.StandingsBy(g.Players, func(p model.Player) int {
			return g.PlayerScores[p.ID]
		})
		if g.PlayInTeams {
			teams := c.scoring.TeamWinner(g.Teams)
			res.Teams = &teams
		}
	}
	if len(res.Standings) > 0 {
		res.Winners = c.scoring.Winners(res.Standings)
	}
	return res, nil
}
