package pomodoro

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"tomatick/internal/core/model"
)

// Sentinel errors returned by Clock commands.
var (
	// ErrSessionRunning rejects transitions that require a paused clock.
	ErrSessionRunning = errors.New("session is running")
	// ErrUnknownSession rejects session types outside the known set.
	ErrUnknownSession = errors.New("unknown session type")
	// ErrClockStopped rejects commands issued after teardown.
	ErrClockStopped = errors.New("clock is stopped")
)

// CompletionNotifier receives fire-and-forget session completion
// signals. Implementations must not panic and must not block on
// platform capabilities; the countdown never waits for them.
type CompletionNotifier interface {
	Notify(completed model.SessionType, soundEnabled bool)
}

// Config contains runtime options for Clock.
type Config struct {
	// TickInterval is the real-time spacing between ticks. Each tick
	// always counts down one logical second, whatever the interval.
	TickInterval time.Duration
}

// Clock is the focus-session state machine. It owns the countdown
// state and at most one live tick resource; every command releases the
// current tick handle before deciding whether to acquire a new one.
type Clock struct {
	mu           sync.Mutex
	config       model.TimerConfig
	options      Config
	session      model.SessionType
	remaining    time.Duration
	running      bool
	cycles       int
	soundEnabled bool
	notifier     CompletionNotifier
	ticker       *tickHandle
	subscribers  []chan Event
	stopped      bool
}

// tickHandle is the owned countdown resource: one ticker and the stop
// channel of the goroutine draining it.
type tickHandle struct {
	ticker *time.Ticker
	stop   chan struct{}
}

// New creates a paused Clock at the start of a work session.
func New(config model.TimerConfig, options Config) *Clock {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	config = config.Normalized()

	clock := &Clock{
		config:       config,
		options:      options,
		session:      model.SessionWork,
		soundEnabled: true,
	}
	clock.remaining = config.Preset(clock.session)
	return clock
}

// SetNotifier injects the completion notifier.
func (clock *Clock) SetNotifier(notifier CompletionNotifier) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.notifier = notifier
}

// SetSoundEnabled toggles the completion tone.
func (clock *Clock) SetSoundEnabled(enabled bool) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.soundEnabled = enabled
}

// SoundEnabled reports whether the completion tone is enabled.
func (clock *Clock) SoundEnabled() bool {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.soundEnabled
}

// State returns the current timer state for rendering.
func (clock *Clock) State() Snapshot {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return Snapshot{
		Session:      clock.session,
		Remaining:    clock.remaining,
		Preset:       clock.config.Preset(clock.session),
		Running:      clock.running,
		Cycles:       clock.cycles,
		SoundEnabled: clock.soundEnabled,
	}
}

// Subscribe registers a new observer channel. Events are dropped for
// subscribers that fall behind.
func (clock *Clock) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		close(ch)
		return ch
	}
	clock.subscribers = append(clock.subscribers, ch)
	clock.mu.Unlock()
	return ch
}

// Start begins or resumes the countdown. It is a no-op while the
// session is already running or nothing remains to count down.
func (clock *Clock) Start() {
	clock.mu.Lock()
	if clock.stopped || clock.running || clock.remaining <= 0 {
		clock.mu.Unlock()
		return
	}
	clock.releaseTickLocked()
	clock.running = true
	clock.acquireTickLocked()
	event := clock.eventLocked(EventStateChange)
	clock.mu.Unlock()

	clock.emit(event)
}

// Pause freezes the countdown at the current remaining time. Idempotent.
func (clock *Clock) Pause() {
	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		return
	}
	clock.releaseTickLocked()
	wasRunning := clock.running
	clock.running = false
	event := clock.eventLocked(EventStateChange)
	clock.mu.Unlock()

	if wasRunning {
		clock.emit(event)
	}
}

// Reset pauses the clock and reloads the current session's preset.
// Session type and completed cycles are untouched.
func (clock *Clock) Reset() {
	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		return
	}
	clock.releaseTickLocked()
	clock.running = false
	clock.remaining = clock.config.Preset(clock.session)
	event := clock.eventLocked(EventStateChange)
	clock.mu.Unlock()

	clock.emit(event)
}

// SwitchSession changes the session type and reloads its preset. It is
// rejected while the countdown is running; callers must pause first.
func (clock *Clock) SwitchSession(next model.SessionType) error {
	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		return ErrClockStopped
	}
	if clock.running {
		clock.mu.Unlock()
		return ErrSessionRunning
	}
	if !next.Valid() {
		clock.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownSession, next)
	}
	clock.releaseTickLocked()
	clock.session = next
	clock.remaining = clock.config.Preset(next)
	clock.running = false
	event := clock.eventLocked(EventStateChange)
	clock.mu.Unlock()

	clock.emit(event)
	return nil
}

// UpdateConfig replaces the presets and reloads the current session so
// that remaining never exceeds its preset. Rejected while running.
func (clock *Clock) UpdateConfig(config model.TimerConfig) error {
	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		return ErrClockStopped
	}
	if clock.running {
		clock.mu.Unlock()
		return ErrSessionRunning
	}
	clock.config = config.Normalized()
	clock.remaining = clock.config.Preset(clock.session)
	event := clock.eventLocked(EventStateChange)
	clock.mu.Unlock()

	clock.emit(event)
	return nil
}

// Stop tears the clock down: the tick resource is released, observer
// channels are closed and further commands become no-ops.
func (clock *Clock) Stop() {
	clock.mu.Lock()
	if clock.stopped {
		clock.mu.Unlock()
		return
	}
	clock.stopped = true
	clock.releaseTickLocked()
	clock.running = false
	subscribers := clock.subscribers
	clock.subscribers = nil
	clock.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

func (clock *Clock) acquireTickLocked() {
	handle := &tickHandle{
		ticker: time.NewTicker(clock.options.TickInterval),
		stop:   make(chan struct{}),
	}
	clock.ticker = handle
	go clock.watchTicks(handle)
}

// releaseTickLocked is the single authoritative release path for the
// tick resource. After it returns no tick from the old handle can reach
// the countdown: handleTick discards ticks whose handle is no longer
// the current one.
func (clock *Clock) releaseTickLocked() {
	if clock.ticker == nil {
		return
	}
	close(clock.ticker.stop)
	clock.ticker = nil
}

func (clock *Clock) watchTicks(handle *tickHandle) {
	defer handle.ticker.Stop()
	for {
		select {
		case <-handle.stop:
			return
		case <-handle.ticker.C:
			clock.handleTick(handle)
		}
	}
}

// handleTick counts down one second and runs the expiry transition when
// the session reaches zero. The whole transition happens under one lock
// hold, so observers never see a half-applied state.
func (clock *Clock) handleTick(handle *tickHandle) {
	clock.mu.Lock()
	if clock.ticker != handle || !clock.running {
		clock.mu.Unlock()
		return
	}

	clock.remaining -= time.Second
	if clock.remaining > 0 {
		clock.emitLocked(clock.eventLocked(EventProgress))
		clock.mu.Unlock()
		return
	}

	clock.remaining = 0
	clock.releaseTickLocked()
	clock.running = false
	completed := clock.session
	if clock.notifier != nil {
		go clock.notifier.Notify(completed, clock.soundEnabled)
	}
	nextSession, nextCycles := Advance(completed, clock.cycles, clock.config.CyclesPerLongBreak)
	clock.session = nextSession
	clock.cycles = nextCycles
	clock.remaining = clock.config.Preset(nextSession)

	completeEvent := clock.eventLocked(EventSessionComplete)
	completeEvent.Completed = completed
	clock.emitLocked(completeEvent)
	clock.emitLocked(clock.eventLocked(EventStateChange))
	clock.mu.Unlock()
}

func (clock *Clock) progressLocked() float64 {
	preset := clock.config.Preset(clock.session)
	if preset <= 0 {
		return 0
	}
	progress := float64(preset-clock.remaining) / float64(preset)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (clock *Clock) eventLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Session:   clock.session,
		Remaining: clock.remaining,
		Running:   clock.running,
		Cycles:    clock.cycles,
		Progress:  clock.progressLocked(),
		At:        time.Now(),
	}
}

func (clock *Clock) emit(event Event) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.emitLocked(event)
}

func (clock *Clock) emitLocked(event Event) {
	subscribers := append([]chan Event(nil), clock.subscribers...)
	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
