package response

import (
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/words"
)

// Session represents a hosted session in API responses. Exactly one of the
// game fields is set.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Game      string    `json:"game"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Imposter    *model.ImposterGame    `json:"imposter,omitempty"`
	MultiDevice *model.MultiDeviceGame `json:"multi_device,omitempty"`
	Mafia       *model.MafiaGame       `json:"mafia,omitempty"`
	Charades    *model.CharadesGame    `json:"charades,omitempty"`
	Synonyms    *model.SynonymsGame    `json:"synonyms,omitempty"`
}

// SessionFromModel converts a model.Session, leaving out the token hash
func SessionFromModel(s *model.Session) Session {
	return Session{
		ID:          string(s.ID),
		Name:        s.Name,
		Game:        string(s.Game),
		Phase:       s.Phase(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Imposter:    s.Imposter,
		MultiDevice: s.MultiDevice,
		Mafia:       s.Mafia,
		Charades:    s.Charades,
		Synonyms:    s.Synonyms,
	}
}

// CreateSessionResponse is returned once, when a session is created
type CreateSessionResponse struct {
	Session Session `json:"session"`
	Token   string  `json:"token"`
}

// Player represents a player in API responses
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:     string(p.ID),
		Name:   p.Name,
		Points: p.Points,
	}
}

// AddPlayerResponse is the response for adding a player
type AddPlayerResponse struct {
	Player  Player  `json:"player"`
	Session Session `json:"session"`
}

// Actions lists the intents a game accepts
type Actions struct {
	Game    string   `json:"game"`
	Actions []string `json:"actions"`
}

// WordPairs is the response for the word pairs endpoint
type WordPairs struct {
	Locale string           `json:"locale"`
	Source words.Source     `json:"source"`
	Pairs  []model.WordPair `json:"pairs"`
}

// Words is the response for plain word list endpoints
type Words struct {
	Locale string       `json:"locale"`
	Source words.Source `json:"source"`
	Words  []string     `json:"words"`
}

// Preferences is the API view of device preferences. The supplier token
// itself is never echoed back.
type Preferences struct {
	Locale   string      `json:"locale"`
	Theme    model.Theme `json:"theme"`
	SignedIn bool        `json:"signed_in"`
	UserData string      `json:"user_data,omitempty"`
}

// PreferencesFromModel converts model.Preferences
func PreferencesFromModel(p *model.Preferences) Preferences {
	return Preferences{
		Locale:   p.Locale,
		Theme:    p.Theme,
		SignedIn: p.AuthToken != "",
		UserData: p.UserData,
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status   string `json:"status"`
	Supplier string `json:"supplier"`
}
