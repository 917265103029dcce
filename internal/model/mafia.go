package model

// Role is a secret mafia role
type Role string

const (
	RoleTown       Role = "town"
	RoleMafia      Role = "mafia"
	RoleDetective  Role = "detective"
	RoleDoctor     Role = "doctor"
	RoleProstitute Role = "prostitute"
)

// MafiaPhase is a step of the mafia role-assignment flow
type MafiaPhase string

const (
	MafiaPhaseRules          MafiaPhase = "rules"
	MafiaPhasePlayers        MafiaPhase = "players"
	MafiaPhaseRoleSelection  MafiaPhase = "role_selection"
	MafiaPhaseRoleAssignment MafiaPhase = "role_assignment"
	MafiaPhaseDone           MafiaPhase = "done"
)

// MafiaMinPlayers is the smallest playable mafia table
const MafiaMinPlayers = 3

// OptionalRoles are the roles a table may switch on
type OptionalRoles struct {
	Doctor     bool `json:"doctor"`
	Prostitute bool `json:"prostitute"`
}

// MafiaGame is the state of one mafia session
type MafiaGame struct {
	Phase              MafiaPhase    `json:"phase"`
	Players            Roster        `json:"players"`
	Optional           OptionalRoles `json:"optional"`
	ShufflePlayers     bool          `json:"shuffle_players"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	Timer              Countdown     `json:"timer"`
	PickedPlayer       PlayerID      `json:"picked_player,omitempty"`
}

// NewMafiaGame returns a mafia game at the rules step
func NewMafiaGame() *MafiaGame {
	return &MafiaGame{
		Phase:   MafiaPhaseRules,
		Players: Roster{},
		Timer:   NewCountdown(DefaultTimerSeconds),
	}
}
