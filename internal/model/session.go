package model

import "time"

// SessionID identifies a hosted game session
type SessionID string

// GameType names one of the hosted games
type GameType string

const (
	GameImposter    GameType = "imposter"
	GameMultiDevice GameType = "imposter_multi"
	GameMafia       GameType = "mafia"
	GameCharades    GameType = "charades"
	GameSynonyms    GameType = "synonyms"
)

// GameTypes lists every hosted game
var GameTypes = []GameType{GameImposter, GameMultiDevice, GameMafia, GameCharades, GameSynonyms}

// Valid reports whether the game type is known
func (g GameType) Valid() bool {
	for _, t := range GameTypes {
		if t == g {
			return true
		}
	}
	return false
}

// Session is one pass-and-play game hosted by the service.
// Exactly one of the game pointers is set, matching Game.
type Session struct {
	ID        SessionID `json:"id"`
	Name      string    `json:"name"`
	Game      GameType  `json:"game"`
	TokenHash []byte    `json:"token_hash"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Imposter    *ImposterGame    `json:"imposter,omitempty"`
	MultiDevice *MultiDeviceGame `json:"multi_device,omitempty"`
	Mafia       *MafiaGame       `json:"mafia,omitempty"`
	Charades    *CharadesGame    `json:"charades,omitempty"`
	Synonyms    *SynonymsGame    `json:"synonyms,omitempty"`
}

// Phase returns the current phase name of the hosted game
func (s *Session) Phase() string {
	switch s.Game {
	case GameImposter:
		return string(s.Imposter.Phase)
	case GameMultiDevice:
		return string(s.MultiDevice.Phase)
	case GameMafia:
		return string(s.Mafia.Phase)
	case GameCharades:
		return string(s.Charades.Phase)
	case GameSynonyms:
		if s.Synonyms.Step == SynonymsStepGame {
			return string(s.Synonyms.Step) + "/" + string(s.Synonyms.Phase)
		}
		return string(s.Synonyms.Step)
	}
	return ""
}

// Players returns the roster of the hosted game
func (s *Session) Players() Roster {
	switch s.Game {
	case GameImposter:
		return s.Imposter.Players
	case GameMultiDevice:
		return s.MultiDevice.Players
	case GameMafia:
		return s.Mafia.Players
	case GameCharades:
		return s.Charades.Players
	case GameSynonyms:
		return s.Synonyms.Players
	}
	return nil
}
