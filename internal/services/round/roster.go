// Package round holds the mechanics shared by every hosted game: roster
// management, team splits, word and role assignment, reveal tracking,
// countdown timers and the tick scheduler.
package round

import (
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/partygames/internal/model"
)

// NewPlayerID derives a timestamp-based id that is unique within the roster
func NewPlayerID(roster model.Roster, now time.Time) model.PlayerID {
	base := strconv.FormatInt(now.UnixMilli(), 10)
	id := model.PlayerID(base)
	for n := 1; roster.Find(id) != nil; n++ {
		id = model.PlayerID(base + "-" + strconv.Itoa(n))
	}
	return id
}

// AddPlayer appends a new player to the roster.
// The name is trimmed; empty and case-insensitive duplicate names are rejected
// without changing the roster.
func AddPlayer(roster *model.Roster, name string, now time.Time) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	if roster.HasName(name) {
		return nil, model.ErrPlayerExists
	}

	*roster = append(*roster, model.Player{
		ID:   NewPlayerID(*roster, now),
		Name: name,
	})
	return &(*roster)[len(*roster)-1], nil
}

// RemovePlayer drops a player and any team assignment they had.
// Removing an unknown id is a no-op.
func RemovePlayer(roster *model.Roster, teams *model.Teams, id model.PlayerID) {
	if teams != nil {
		delete(teams.Assignment, id)
	}
	idx := roster.Index(id)
	if idx < 0 {
		return
	}
	*roster = append((*roster)[:idx], (*roster)[idx+1:]...)
}

// RequirePlayers blocks a transition when the roster is below the game minimum
func RequirePlayers(roster model.Roster, min int) error {
	if len(roster) < min {
		return model.ErrNotEnoughPlayers
	}
	return nil
}
