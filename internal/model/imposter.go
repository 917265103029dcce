package model

// ImposterPhase is a step of the single-device word-imposter game
type ImposterPhase string

const (
	ImposterPhaseRules          ImposterPhase = "rules"
	ImposterPhasePlayers        ImposterPhase = "players"
	ImposterPhaseRoundsAndTime  ImposterPhase = "rounds_and_time"
	ImposterPhaseWordAssignment ImposterPhase = "word_assignment"
	ImposterPhaseGameplay       ImposterPhase = "gameplay"
	ImposterPhaseVoting         ImposterPhase = "voting"
	ImposterPhaseScoring        ImposterPhase = "scoring"
	ImposterPhaseFinalResults   ImposterPhase = "final_results"
)

// Word-imposter limits
const (
	ImposterMinPlayers       = 3
	ImposterMinRounds        = 1
	ImposterMaxRounds        = 10
	ImposterDefaultRounds    = 3
	ImposterMinRoundTime     = 30
	ImposterRoundTimeStep    = 15
	ImposterDefaultRoundTime = 60
	ImposterMaxRoundPoints   = 2
)

// ImposterSettings are chosen at the rounds-and-time step
type ImposterSettings struct {
	Rounds    int    `json:"rounds"`
	RoundTime int    `json:"round_time"`
	Locale    string `json:"locale"`
}

// ImposterGame is the state of a single-device word-imposter session
type ImposterGame struct {
	Phase              ImposterPhase    `json:"phase"`
	Settings           ImposterSettings `json:"settings"`
	Players            Roster           `json:"players"`
	WordPairs          []WordPair       `json:"word_pairs"`
	CurrentRound       int              `json:"current_round"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	CurrentPair        *WordPair        `json:"current_pair,omitempty"`
	StartingPlayer     PlayerID         `json:"starting_player,omitempty"`
	Timer              Countdown        `json:"timer"`
	Usages             []WordUsage      `json:"usages,omitempty"`
	UsagesReported     bool             `json:"usages_reported"`
}

// NewImposterGame returns a word-imposter game at the rules step
func NewImposterGame() *ImposterGame {
	return &ImposterGame{
		Phase: ImposterPhaseRules,
		Settings: ImposterSettings{
			Rounds:    ImposterDefaultRounds,
			RoundTime: ImposterDefaultRoundTime,
			Locale:    DefaultLocale,
		},
		Players: Roster{},
		Timer:   NewCountdown(ImposterDefaultRoundTime),
	}
}

// MultiDevicePhase is a step of the multi-device word-imposter game
type MultiDevicePhase string

const (
	MultiDevicePhaseLobby          MultiDevicePhase = "lobby"
	MultiDevicePhaseWordAssignment MultiDevicePhase = "word_assignment"
	MultiDevicePhaseClues          MultiDevicePhase = "clue_phase"
	MultiDevicePhaseVoting         MultiDevicePhase = "voting_phase"
	MultiDevicePhaseResults        MultiDevicePhase = "results"
	MultiDevicePhaseGameOver       MultiDevicePhase = "game_over"
)

// Multi-device limits
const (
	MultiDeviceMinClueTime       = 10
	MultiDeviceDefaultClueTime   = 30
	MultiDeviceMinVotingTime     = 30
	MultiDeviceDefaultVotingTime = 60
	GameCodeLength               = 6
	GameCodeAlphabet             = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// MultiDeviceSettings configure the multi-device game
type MultiDeviceSettings struct {
	Rounds     int    `json:"rounds"`
	ClueTime   int    `json:"clue_time"`
	VotingTime int    `json:"voting_time"`
	Locale     string `json:"locale"`
}

// MultiDeviceGame is the state of a multi-device word-imposter session
type MultiDeviceGame struct {
	Code               string              `json:"code"`
	Phase              MultiDevicePhase    `json:"phase"`
	Settings           MultiDeviceSettings `json:"settings"`
	Players            Roster              `json:"players"`
	WordPairs          []WordPair          `json:"word_pairs"`
	CurrentRound       int                 `json:"current_round"`
	CurrentPlayerIndex int                 `json:"current_player_index"`
	CurrentPair        *WordPair           `json:"current_pair,omitempty"`
	Timer              Countdown           `json:"timer"`
}

// NewMultiDeviceGame returns a multi-device game in the lobby
func NewMultiDeviceGame(code string) *MultiDeviceGame {
	return &MultiDeviceGame{
		Code:  code,
		Phase: MultiDevicePhaseLobby,
		Settings: MultiDeviceSettings{
			Rounds:     ImposterDefaultRounds,
			ClueTime:   MultiDeviceDefaultClueTime,
			VotingTime: MultiDeviceDefaultVotingTime,
			Locale:     DefaultLocale,
		},
		Players: Roster{},
		Timer:   NewCountdown(MultiDeviceDefaultClueTime),
	}
}
