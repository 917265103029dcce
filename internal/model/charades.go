package model

// CharadesPhase is a step of the charades flow
type CharadesPhase string

const (
	CharadesPhaseRules   CharadesPhase = "rules"
	CharadesPhasePlayers CharadesPhase = "players"
	CharadesPhaseTeams   CharadesPhase = "teams"
	CharadesPhaseGame    CharadesPhase = "game"
)

// Charades limits
const (
	CharadesMinPlayers = 2
	CharadesWordLimit  = 50
)

// CharadesGame is the state of one charades session
type CharadesGame struct {
	Phase        CharadesPhase `json:"phase"`
	Players      Roster        `json:"players"`
	Teams        Teams         `json:"teams"`
	Words        []string      `json:"words,omitempty"`
	CurrentWord  string        `json:"current_word,omitempty"`
	WordRevealed bool          `json:"word_revealed"`
	Timer        Countdown     `json:"timer"`
	Locale       string        `json:"locale"`
}

// NewCharadesGame returns a charades game at the rules step
func NewCharadesGame() *CharadesGame {
	return &CharadesGame{
		Phase:   CharadesPhaseRules,
		Players: Roster{},
		Teams:   NewTeams(),
		Timer:   NewCountdown(DefaultTimerSeconds),
		Locale:  DefaultLocale,
	}
}
