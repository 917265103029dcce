package round

import (
	"time"

	"github.com/mcoot/partygames/internal/model"
)

// StartTimer restores the full duration and starts counting from now
func StartTimer(c *model.Countdown, now time.Time) {
	c.Remaining = c.Duration
	c.Running = true
	c.Alarmed = false
	c.LastTick = now
}

// PauseTimer stops counting and keeps the remaining time
func PauseTimer(c *model.Countdown) {
	c.Running = false
}

// ResumeTimer continues counting from the preserved remaining time
func ResumeTimer(c *model.Countdown, now time.Time) {
	if c.Remaining <= 0 {
		return
	}
	c.Running = true
	c.LastTick = now
}

// ResetTimer restores the full duration and stops the timer
func ResetTimer(c *model.Countdown) {
	c.Remaining = c.Duration
	c.Running = false
	c.Alarmed = false
}

// SetDuration changes the configured duration and resets the timer
func SetDuration(c *model.Countdown, seconds int) {
	c.Duration = seconds
	ResetTimer(c)
}

// Tick consumes one second. It returns true exactly once per zero crossing,
// at which point the timer is stopped.
func Tick(c *model.Countdown) bool {
	if !c.Running {
		return false
	}
	c.Remaining--
	if c.Remaining > 0 {
		return false
	}
	c.Remaining = 0
	c.Running = false
	if c.Alarmed {
		return false
	}
	c.Alarmed = true
	return true
}

// AdvanceTimer applies every whole second elapsed since the last tick.
// When active is false the elapsed time is skipped rather than consumed,
// so a timer only counts down while its gameplay phase is showing.
func AdvanceTimer(c *model.Countdown, now time.Time, active bool) (crossed bool) {
	if !c.Running {
		return false
	}
	if !active {
		c.LastTick = now
		return false
	}
	for now.Sub(c.LastTick) >= time.Second && c.Running {
		c.LastTick = c.LastTick.Add(time.Second)
		if Tick(c) {
			crossed = true
		}
	}
	return crossed
}

// SetDiscussionDuration changes a discussion timer's length. A running
// timer keeps counting from where it is; a stopped one shows the new length.
func SetDiscussionDuration(c *model.Countdown, seconds int) error {
	if seconds < model.DiscussionMinSeconds || seconds > model.DiscussionMaxSeconds ||
		seconds%model.DiscussionStepSeconds != 0 {
		return model.ErrInvalidSetting
	}
	c.Duration = seconds
	if !c.Running {
		c.Remaining = seconds
		c.Alarmed = false
	}
	return nil
}
