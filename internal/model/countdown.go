package model

import "time"

// Countdown is whole-second timer state.
// Alarmed records that the zero crossing for the current run already fired.
type Countdown struct {
	Duration  int       `json:"duration"`
	Remaining int       `json:"remaining"`
	Running   bool      `json:"running"`
	Alarmed   bool      `json:"alarmed"`
	LastTick  time.Time `json:"last_tick"`
}

// NewCountdown returns a stopped countdown at full duration
func NewCountdown(seconds int) Countdown {
	return Countdown{Duration: seconds, Remaining: seconds}
}

// Timer presets shared by the discussion timers
var TimePresets = []int{30, 60, 90, 120}

// DefaultTimerSeconds is the default discussion/round duration
const DefaultTimerSeconds = 60

// Discussion timer bounds for mafia and charades
const (
	DiscussionMinSeconds  = 15
	DiscussionMaxSeconds  = 600
	DiscussionStepSeconds = 15
)
