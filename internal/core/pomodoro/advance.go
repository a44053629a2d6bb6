package pomodoro

import "tomatick/internal/core/model"

// Advance computes the session that follows a completed one, together
// with the updated count of completed work sessions. It is a pure
// function of the state passed in: completing a work session increments
// the cycle count and routes to the long break once per cadence,
// completing any break leads back to work and leaves the count alone.
func Advance(completed model.SessionType, cycles, cyclesPerLong int) (model.SessionType, int) {
	if cyclesPerLong <= 0 {
		cyclesPerLong = model.DefaultCyclesPerLongBreak
	}
	if completed != model.SessionWork {
		return model.SessionWork, cycles
	}
	cycles++
	if cycles%cyclesPerLong == 0 {
		return model.SessionLongBreak, cycles
	}
	return model.SessionShortBreak, cycles
}
