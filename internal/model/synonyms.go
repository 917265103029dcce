package model

import "time"

// SynonymsStep is a setup step of the synonyms game
type SynonymsStep string

const (
	SynonymsStepRules         SynonymsStep = "rules"
	SynonymsStepPlayers       SynonymsStep = "players"
	SynonymsStepTeamsChoice   SynonymsStep = "teams_choice"
	SynonymsStepTeams         SynonymsStep = "teams"
	SynonymsStepRoundsAndTime SynonymsStep = "rounds_and_time"
	SynonymsStepGame          SynonymsStep = "game"
)

// SynonymsPhase is the in-game turn phase
type SynonymsPhase string

const (
	SynonymsPhaseRotate        SynonymsPhase = "rotate"
	SynonymsPhaseCountdown     SynonymsPhase = "countdown"
	SynonymsPhasePlaying       SynonymsPhase = "playing"
	SynonymsPhaseFeedbackGreen SynonymsPhase = "feedback_green"
	SynonymsPhaseFeedbackRed   SynonymsPhase = "feedback_red"
	SynonymsPhaseTurnResults   SynonymsPhase = "turn_results"
	SynonymsPhaseGameOver      SynonymsPhase = "game_over"
)

// FeedbackReason explains a red feedback flash
type FeedbackReason string

const (
	FeedbackPass   FeedbackReason = "pass"
	FeedbackTimeUp FeedbackReason = "time_up"
)

// Synonyms tuning
const (
	SynonymsMinPlayers       = 2
	SynonymsMinRounds        = 1
	SynonymsMaxRounds        = 10
	SynonymsDefaultRounds    = 3
	SynonymsDefaultRoundTime = 30
	SynonymsCountdownSeconds = 3
	SynonymsWordLimit        = 150

	TiltThreshold        = 0.68
	TiltCooldown         = 1200 * time.Millisecond
	FeedbackDuration     = 1200 * time.Millisecond
	LandscapeLeaveDelay  = 600 * time.Millisecond
	LandscapeAxisMinimum = 0.6
	LandscapeZMaximum    = 0.9
)

// SynonymsTimePresets are the allowed turn durations
var SynonymsTimePresets = []int{15, 30, 45, 60}

// WordResult records whether a dealt word was guessed
type WordResult struct {
	Word    string `json:"word"`
	Guessed bool   `json:"guessed"`
}

// Orientation is the debounced landscape detector state
type Orientation struct {
	Landscape    bool      `json:"landscape"`
	PendingLeave time.Time `json:"pending_leave,omitempty"`
}

// SynonymsTurn is the state of the active player's turn
type SynonymsTurn struct {
	Pool           []string       `json:"pool"`
	PoolIndex      int            `json:"pool_index"`
	Words          []string       `json:"words"`
	WordIndex      int            `json:"word_index"`
	Results        []WordResult   `json:"results"`
	Countdown      Countdown      `json:"countdown"`
	Timer          Countdown      `json:"timer"`
	FeedbackUntil  time.Time      `json:"feedback_until,omitempty"`
	FeedbackReason FeedbackReason `json:"feedback_reason,omitempty"`
	CooldownUntil  time.Time      `json:"cooldown_until,omitempty"`
	Points         int            `json:"points"`
}

// SynonymsGame is the state of one synonyms session
type SynonymsGame struct {
	Step               SynonymsStep     `json:"step"`
	Phase              SynonymsPhase    `json:"phase"`
	Players            Roster           `json:"players"`
	PlayInTeams        bool             `json:"play_in_teams"`
	Teams              Teams            `json:"teams"`
	Rounds             int              `json:"rounds"`
	RoundTime          int              `json:"round_time"`
	Words              []string         `json:"words,omitempty"`
	CurrentRound       int              `json:"current_round"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	PlayerScores       map[PlayerID]int `json:"player_scores"`
	Orientation        Orientation      `json:"orientation"`
	Turn               SynonymsTurn     `json:"turn"`
	Locale             string           `json:"locale"`
}

// NewSynonymsGame returns a synonyms game at the rules step
func NewSynonymsGame() *SynonymsGame {
	return &SynonymsGame{
		Step:         SynonymsStepRules,
		Phase:        SynonymsPhaseRotate,
		Players:      Roster{},
		Teams:        NewTeams(),
		Rounds:       SynonymsDefaultRounds,
		RoundTime:    SynonymsDefaultRoundTime,
		PlayerScores: make(map[PlayerID]int),
		Locale:       DefaultLocale,
	}
}

// CurrentWord returns the word being guessed, if any
func (g *SynonymsGame) CurrentWord() string {
	if g.Turn.WordIndex < len(g.Turn.Words) {
		return g.Turn.Words[g.Turn.WordIndex]
	}
	return ""
}
