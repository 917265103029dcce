package model

import "strings"

// PlayerID is a locally generated opaque identifier
type PlayerID string

// Player is a participant in a pass-and-play session.
// Not every game uses every field: mafia sets Role, the word-imposter
// family sets Word/IsImposter, multi-device uses the ready and vote fields.
type Player struct {
	ID          PlayerID `json:"id"`
	Name        string   `json:"name"`
	Points      int      `json:"points"`
	RoundPoints int      `json:"round_points"`

	Word       string `json:"word,omitempty"`
	IsImposter bool   `json:"is_imposter,omitempty"`
	Role       Role   `json:"role,omitempty"`

	HasRevealed bool `json:"has_revealed"`
	RevealCount int  `json:"reveal_count"`

	IsReady  bool     `json:"is_ready,omitempty"`
	HasVoted bool     `json:"has_voted,omitempty"`
	VoteFor  PlayerID `json:"vote_for,omitempty"`
}

// ClearRound resets the per-round fields, keeping identity and points
func (p *Player) ClearRound() {
	p.RoundPoints = 0
	p.Word = ""
	p.IsImposter = false
	p.Role = ""
	p.HasRevealed = false
	p.RevealCount = 0
	p.HasVoted = false
	p.VoteFor = ""
}

// Roster is the ordered list of players in a session
type Roster []Player

// Find returns the player with the given id, or nil
func (r Roster) Find(id PlayerID) *Player {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}
	return nil
}

// Index returns the position of the player with the given id, or -1
func (r Roster) Index(id PlayerID) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}

// HasName reports whether a player with this name exists, ignoring case
func (r Roster) HasName(name string) bool {
	for _, p := range r {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// IDs returns player ids in roster order
func (r Roster) IDs() []PlayerID {
	ids := make([]PlayerID, len(r))
	for i, p := range r {
		ids[i] = p.ID
	}
	return ids
}
