package scoring

import (
	"sort"

	"github.com/mcoot/partygames/internal/model"
)

// Standing is one row of a final leaderboard
type Standing struct {
	Rank     int            `json:"rank"`
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
	Points   int            `json:"points"`
}

// TeamResult is the outcome of a two-team game
type TeamResult struct {
	Scores [2]int    `json:"scores"`
	Names  [2]string `json:"names"`
	// Winner is the winning team index, or -1 on a tie
	Winner int `json:"winner"`
}

// Service ranks players and teams for the results screens
type Service struct{}

// New creates a new scoring service
func New() *Service {
	return &Service{}
}

// Rank orders players by their accumulated points, highest first.
// Ties keep roster order and share a rank (1, 1, 3).
func (s *Service) Rank(players model.Roster) []model.Player {
	ranked := make([]model.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	return ranked
}

// Standings builds the leaderboard from each player's Points
func (s *Service) Standings(players model.Roster) []Standing {
	return s.StandingsBy(players, func(p model.Player) int { return p.Points })
}

// StandingsBy builds the leaderboard using points from an external tally,
// such as the synonyms per-player scores.
func (s *Service) StandingsBy(players model.Roster, points func(model.Player) int) []Standing {
	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{PlayerID: p.ID, Name: p.Name, Points: points(p)}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	for i := range standings {
		if i > 0 && standings[i].Points == standings[i-1].Points {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}
	return standings
}

// Winners returns every player tied for first place
func (s *Service) Winners(standings []Standing) []model.PlayerID {
	var winners []model.PlayerID
	for _, st := range standings {
		if st.Rank != 1 {
			break
		}
		winners = append(winners, st.PlayerID)
	}
	return winners
}

// TeamWinner compares the two team scores
func (s *Service) TeamWinner(teams model.Teams) TeamResult {
	result := TeamResult{Scores: teams.Scores, Names: teams.Names, Winner: -1}
	switch {
	case teams.Scores[0] > teams.Scores[1]:
		result.Winner = 0
	case teams.Scores[1] > teams.Scores[0]:
		result.Winner = 1
	}
	return result
}

// Interface for dependency injection
type ServiceInterface interface {
	Rank(players model.Roster) []model.Player
	Standings(players model.Roster) []Standing
	StandingsBy(players model.Roster, points func(model.Player) int) []Standing
	Winners(standings []Standing) []model.PlayerID
	TeamWinner(teams model.Teams) TeamResult
}

var _ ServiceInterface = (*Service)(nil)
