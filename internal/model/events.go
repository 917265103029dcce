package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventSessionUpdated EventType = "session-updated"
	EventPhaseChanged   EventType = "phase-changed"
	EventTimeUp         EventType = "time-up"
	EventSessionDeleted EventType = "session-deleted"
)

// Event is published to subscribers of a session
type Event struct {
	Type      EventType `json:"type"`
	SessionID SessionID `json:"session_id"`
	Phase     string    `json:"phase,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
