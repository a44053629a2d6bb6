package model

// SessionType identifies a timer phase.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// Valid reports whether the session type is one of the known phases.
func (session SessionType) Valid() bool {
	switch session {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether the session is a rest phase.
func (session SessionType) IsBreak() bool {
	return session == SessionShortBreak || session == SessionLongBreak
}
