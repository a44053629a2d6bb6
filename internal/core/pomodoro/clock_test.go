package pomodoro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomatick/internal/core/model"
)

// newTestClock returns a clock whose real ticker never fires, so tests
// drive the countdown deterministically through handleTick.
func newTestClock() *Clock {
	return New(model.DefaultTimerConfig(), Config{TickInterval: time.Hour})
}

func currentHandle(clock *Clock) *tickHandle {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.ticker
}

func drainSeconds(t *testing.T, clock *Clock, seconds int) {
	t.Helper()
	for i := 0; i < seconds; i++ {
		handle := currentHandle(clock)
		require.NotNil(t, handle, "tick handle missing at second %d", i)
		clock.handleTick(handle)
	}
}

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case event, open := <-ch:
			if !open {
				return events
			}
			events = append(events, event)
		default:
			return events
		}
	}
}

// requireClosed drains any buffered events and fails unless the channel
// gets closed within a second.
func requireClosed(t *testing.T, ch <-chan Event) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel not closed")
		}
	}
}

type notifyCall struct {
	completed    model.SessionType
	soundEnabled bool
}

type recordingNotifier struct {
	calls chan notifyCall
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: make(chan notifyCall, 4)}
}

func (notifier *recordingNotifier) Notify(completed model.SessionType, soundEnabled bool) {
	notifier.calls <- notifyCall{completed: completed, soundEnabled: soundEnabled}
}

func (notifier *recordingNotifier) await(t *testing.T) notifyCall {
	t.Helper()
	select {
	case call := <-notifier.calls:
		return call
	case <-time.After(time.Second):
		t.Fatal("completion notification not delivered")
		return notifyCall{}
	}
}

func TestNew_InitialState(t *testing.T) {
	clock := newTestClock()

	snapshot := clock.State()
	assert.Equal(t, model.SessionWork, snapshot.Session)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.Equal(t, 25*time.Minute, snapshot.Preset)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, snapshot.Cycles)
	assert.True(t, snapshot.SoundEnabled)
	assert.Equal(t, 0.0, snapshot.Progress())
	assert.Nil(t, currentHandle(clock))
}

func TestNew_NormalizesConfig(t *testing.T) {
	clock := New(model.TimerConfig{}, Config{})

	snapshot := clock.State()
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.Equal(t, time.Second, clock.options.TickInterval)
}

func TestClock_Start_BeginsCountdown(t *testing.T) {
	clock := newTestClock()
	events := clock.Subscribe(4)

	clock.Start()

	snapshot := clock.State()
	assert.True(t, snapshot.Running)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	require.NotNil(t, currentHandle(clock))

	collected := collectEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, EventStateChange, collected[0].Type)
	assert.True(t, collected[0].Running)
}

func TestClock_Start_WhileRunning_KeepsSingleTickResource(t *testing.T) {
	clock := newTestClock()

	clock.Start()
	first := currentHandle(clock)
	require.NotNil(t, first)

	clock.Start()

	assert.Same(t, first, currentHandle(clock), "second start must not replace the live tick resource")
	assert.True(t, clock.State().Running)
}

func TestClock_Start_WithNothingRemaining_NoOp(t *testing.T) {
	clock := newTestClock()
	clock.mu.Lock()
	clock.remaining = 0
	clock.mu.Unlock()

	clock.Start()

	assert.False(t, clock.State().Running)
	assert.Nil(t, currentHandle(clock))
}

func TestClock_Tick_CountsDownWholeSeconds(t *testing.T) {
	clock := newTestClock()
	clock.Start()

	drainSeconds(t, clock, 3)

	assert.Equal(t, 25*time.Minute-3*time.Second, clock.State().Remaining)
	assert.True(t, clock.State().Running)
}

func TestClock_Pause_FreezesRemaining(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 300)

	clock.Pause()

	snapshot := clock.State()
	assert.Equal(t, model.SessionWork, snapshot.Session)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 20*time.Minute, snapshot.Remaining)
	assert.Nil(t, currentHandle(clock))
}

func TestClock_Pause_ThenStart_ResumesExactRemaining(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 90)
	clock.Pause()

	clock.Start()

	assert.Equal(t, 25*time.Minute-90*time.Second, clock.State().Remaining)
	drainSeconds(t, clock, 1)
	assert.Equal(t, 25*time.Minute-91*time.Second, clock.State().Remaining)
}

func TestClock_Pause_Idempotent(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	events := clock.Subscribe(4)

	clock.Pause()
	clock.Pause()

	assert.False(t, clock.State().Running)
	collected := collectEvents(events)
	require.Len(t, collected, 1, "repeated pause must not emit again")
}

func TestClock_Pause_CancelsPendingTick(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	handle := currentHandle(clock)
	require.NotNil(t, handle)

	clock.Pause()
	before := clock.State().Remaining
	clock.handleTick(handle)

	assert.Equal(t, before, clock.State().Remaining, "no decrement may be observed after pause")
	assert.False(t, clock.State().Running)
}

func TestClock_Reset_ReloadsPreset(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 200)

	clock.Reset()

	snapshot := clock.State()
	assert.Equal(t, model.SessionWork, snapshot.Session)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.Equal(t, 0, snapshot.Cycles)
	assert.Nil(t, currentHandle(clock))
}

func TestClock_Reset_KeepsSessionAndCycles(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 25*60)
	require.Equal(t, model.SessionShortBreak, clock.State().Session)
	require.Equal(t, 1, clock.State().Cycles)

	clock.Reset()

	snapshot := clock.State()
	assert.Equal(t, model.SessionShortBreak, snapshot.Session)
	assert.Equal(t, 5*time.Minute, snapshot.Remaining)
	assert.Equal(t, 1, snapshot.Cycles)
}

func TestClock_SwitchSession_WhileRunning_Rejected(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 10)
	before := clock.State()
	handle := currentHandle(clock)

	err := clock.SwitchSession(model.SessionShortBreak)

	require.ErrorIs(t, err, ErrSessionRunning)
	assert.Equal(t, before, clock.State(), "rejected switch must leave the state untouched")
	assert.Same(t, handle, currentHandle(clock))
}

func TestClock_SwitchSession_ChangesPhase(t *testing.T) {
	clock := newTestClock()

	err := clock.SwitchSession(model.SessionLongBreak)

	require.NoError(t, err)
	snapshot := clock.State()
	assert.Equal(t, model.SessionLongBreak, snapshot.Session)
	assert.Equal(t, 15*time.Minute, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, snapshot.Cycles)
}

func TestClock_SwitchSession_UnknownType(t *testing.T) {
	clock := newTestClock()
	before := clock.State()

	err := clock.SwitchSession(model.SessionType("nap"))

	require.ErrorIs(t, err, ErrUnknownSession)
	assert.Equal(t, before, clock.State())
}

func TestClock_WorkExpiry_AdvancesToShortBreakPaused(t *testing.T) {
	clock := newTestClock()
	clock.Start()

	drainSeconds(t, clock, 25*60)

	snapshot := clock.State()
	assert.Equal(t, model.SessionShortBreak, snapshot.Session)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 5*time.Minute, snapshot.Remaining)
	assert.Equal(t, 1, snapshot.Cycles)
	assert.Nil(t, currentHandle(clock), "expiry must release the tick resource")
}

func TestClock_FourthWorkCompletion_RoutesToLongBreak(t *testing.T) {
	clock := newTestClock()

	for completion := 1; completion <= 4; completion++ {
		if clock.State().Session != model.SessionWork {
			require.NoError(t, clock.SwitchSession(model.SessionWork))
		}
		clock.Start()
		drainSeconds(t, clock, 25*60)
	}

	snapshot := clock.State()
	assert.Equal(t, model.SessionLongBreak, snapshot.Session)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 15*time.Minute, snapshot.Remaining)
	assert.Equal(t, 4, snapshot.Cycles)
}

func TestClock_BreakExpiry_ReturnsToWork_CyclesUnchanged(t *testing.T) {
	clock := newTestClock()
	require.NoError(t, clock.SwitchSession(model.SessionShortBreak))
	clock.Start()

	drainSeconds(t, clock, 5*60)

	snapshot := clock.State()
	assert.Equal(t, model.SessionWork, snapshot.Session)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.Equal(t, 0, snapshot.Cycles)
}

func TestClock_Expiry_NotifiesCompletedSession(t *testing.T) {
	clock := newTestClock()
	notifier := newRecordingNotifier()
	clock.SetNotifier(notifier)
	clock.Start()

	drainSeconds(t, clock, 25*60)

	call := notifier.await(t)
	assert.Equal(t, model.SessionWork, call.completed)
	assert.True(t, call.soundEnabled)
}

func TestClock_Expiry_SoundDisabled_PassedThrough(t *testing.T) {
	clock := newTestClock()
	notifier := newRecordingNotifier()
	clock.SetNotifier(notifier)
	clock.SetSoundEnabled(false)
	clock.Start()

	drainSeconds(t, clock, 25*60)

	call := notifier.await(t)
	assert.False(t, call.soundEnabled)
}

func TestClock_Expiry_WithoutNotifier_TransitionsIdentically(t *testing.T) {
	withNotifier := newTestClock()
	withNotifier.SetNotifier(newRecordingNotifier())
	withNotifier.Start()
	drainSeconds(t, withNotifier, 25*60)

	without := newTestClock()
	without.Start()
	drainSeconds(t, without, 25*60)

	assert.Equal(t, withNotifier.State(), without.State())
}

func TestClock_Expiry_EmitsCompleteThenStateChange(t *testing.T) {
	clock := New(model.TimerConfig{Work: 2 * time.Second}, Config{TickInterval: time.Hour})
	events := clock.Subscribe(8)
	clock.Start()

	drainSeconds(t, clock, 2)

	collected := collectEvents(events)
	require.Len(t, collected, 4, "start, progress, complete, state change")
	assert.Equal(t, EventStateChange, collected[0].Type)
	assert.Equal(t, EventProgress, collected[1].Type)

	complete := collected[2]
	assert.Equal(t, EventSessionComplete, complete.Type)
	assert.Equal(t, model.SessionWork, complete.Completed)
	assert.Equal(t, model.SessionShortBreak, complete.Session)
	assert.False(t, complete.Running)
	assert.Equal(t, 5*time.Minute, complete.Remaining)
	assert.Equal(t, 1, complete.Cycles)

	assert.Equal(t, EventStateChange, collected[3].Type)
	assert.Equal(t, model.SessionShortBreak, collected[3].Session)
}

func TestClock_Progress_TracksElapsedFraction(t *testing.T) {
	clock := New(model.TimerConfig{Work: 4 * time.Second}, Config{TickInterval: time.Hour})
	clock.Start()

	drainSeconds(t, clock, 2)

	assert.InDelta(t, 0.5, clock.State().Progress(), 1e-9)
}

func TestClock_UpdateConfig_WhileRunning_Rejected(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	before := clock.State()

	err := clock.UpdateConfig(model.TimerConfig{Work: 50 * time.Minute})

	require.ErrorIs(t, err, ErrSessionRunning)
	assert.Equal(t, before, clock.State())
}

func TestClock_UpdateConfig_ReloadsRemaining(t *testing.T) {
	clock := newTestClock()
	clock.Start()
	drainSeconds(t, clock, 60)
	clock.Pause()

	err := clock.UpdateConfig(model.TimerConfig{
		Work:               50 * time.Minute,
		ShortBreak:         10 * time.Minute,
		LongBreak:          20 * time.Minute,
		CyclesPerLongBreak: 4,
	})

	require.NoError(t, err)
	snapshot := clock.State()
	assert.Equal(t, 50*time.Minute, snapshot.Remaining)
	assert.Equal(t, 50*time.Minute, snapshot.Preset)
	assert.False(t, snapshot.Running)
}

func TestClock_Stop_ReleasesTickAndClosesSubscribers(t *testing.T) {
	clock := newTestClock()
	events := clock.Subscribe(4)
	clock.Start()

	clock.Stop()

	assert.Nil(t, currentHandle(clock))
	requireClosed(t, events)

	clock.Start()
	assert.False(t, clock.State().Running)
	assert.ErrorIs(t, clock.SwitchSession(model.SessionWork), ErrClockStopped)
	assert.ErrorIs(t, clock.UpdateConfig(model.DefaultTimerConfig()), ErrClockStopped)
}

func TestClock_Subscribe_AfterStop_ReturnsClosedChannel(t *testing.T) {
	clock := newTestClock()
	clock.Stop()

	events := clock.Subscribe(1)

	_, open := <-events
	assert.False(t, open)
}

func TestClock_Ticker_DrivesCountdownInRealTime(t *testing.T) {
	clock := New(model.DefaultTimerConfig(), Config{TickInterval: 5 * time.Millisecond})
	events := clock.Subscribe(16)
	clock.Start()

	deadline := time.After(2 * time.Second)
	for clock.State().Remaining == 25*time.Minute {
		select {
		case <-deadline:
			t.Fatal("ticker never advanced the countdown")
		case <-time.After(time.Millisecond):
		}
	}
	clock.Stop()

	assert.Less(t, clock.State().Remaining, 25*time.Minute)
	var sawProgress bool
	for _, event := range collectEvents(events) {
		if event.Type == EventProgress {
			sawProgress = true
		}
	}
	assert.True(t, sawProgress, "running ticker must emit progress events")
}
