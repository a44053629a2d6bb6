package model

import "time"

// DefaultCyclesPerLongBreak is the number of completed work sessions
// after which the long break replaces the short one.
const DefaultCyclesPerLongBreak = 4

// TimerConfig contains the per-session countdown presets.
type TimerConfig struct {
	Work               time.Duration
	ShortBreak         time.Duration
	LongBreak          time.Duration
	CyclesPerLongBreak int
}

// DefaultTimerConfig returns the standard pomodoro presets.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Work:               25 * time.Minute,
		ShortBreak:         5 * time.Minute,
		LongBreak:          15 * time.Minute,
		CyclesPerLongBreak: DefaultCyclesPerLongBreak,
	}
}

// Preset returns the countdown duration for the given session type.
func (config TimerConfig) Preset(session SessionType) time.Duration {
	switch session {
	case SessionShortBreak:
		return config.ShortBreak
	case SessionLongBreak:
		return config.LongBreak
	default:
		return config.Work
	}
}

// Normalized replaces non-positive fields with their defaults.
func (config TimerConfig) Normalized() TimerConfig {
	defaults := DefaultTimerConfig()
	if config.Work <= 0 {
		config.Work = defaults.Work
	}
	if config.ShortBreak <= 0 {
		config.ShortBreak = defaults.ShortBreak
	}
	if config.LongBreak <= 0 {
		config.LongBreak = defaults.LongBreak
	}
	if config.CyclesPerLongBreak <= 0 {
		config.CyclesPerLongBreak = defaults.CyclesPerLongBreak
	}
	return config
}
