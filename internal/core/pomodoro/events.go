package pomodoro

import (
	"time"

	"tomatick/internal/core/model"
)

// EventType defines the type of Clock event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventSessionComplete EventType = "session_complete"
)

// Event represents a Clock update for observers. On EventSessionComplete
// the payload already describes the next session; Completed names the
// session that just ran out.
type Event struct {
	Type      EventType
	Session   model.SessionType
	Completed model.SessionType
	Remaining time.Duration
	Running   bool
	Cycles    int
	Progress  float64
	At        time.Time
}

// Snapshot is the read model exposed for rendering.
type Snapshot struct {
	Session      model.SessionType
	Remaining    time.Duration
	Preset       time.Duration
	Running      bool
	Cycles       int
	SoundEnabled bool
}

// Progress reports the elapsed fraction of the current session.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.Preset <= 0 {
		return 0
	}
	progress := float64(snapshot.Preset-snapshot.Remaining) / float64(snapshot.Preset)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
