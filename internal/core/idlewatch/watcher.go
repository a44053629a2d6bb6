package idlewatch

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"tomatick/internal/core/pomodoro"
	"tomatick/internal/platform"
)

const (
	defaultPauseAfter    = 5 * time.Minute
	defaultCheckInterval = 5 * time.Second
)

// Commander is the slice of the timer engine the watcher drives.
type Commander interface {
	State() pomodoro.Snapshot
	Pause()
}

// Config tunes the watcher.
type Config struct {
	// PauseAfter is the inactivity threshold. Default 5 minutes.
	PauseAfter time.Duration
	// CheckInterval is how often the idle provider is polled. Default 5s.
	CheckInterval time.Duration
}

// Watcher pauses a running session once the user has been idle past the
// threshold. It never resumes a session: coming back from idle is the
// user's decision. A provider that reports unsupported disables the
// watcher for the rest of the process.
type Watcher struct {
	clock    Commander
	provider platform.IdleProvider
	logger   *slog.Logger
	interval time.Duration

	mu          sync.Mutex
	pauseAfter  time.Duration
	enabled     bool
	unsupported bool
	stopCh      chan struct{}
}

// New builds a watcher around the clock and idle provider. A nil logger
// falls back to slog.Default(); a nil provider disables the watcher.
func New(clock Commander, provider platform.IdleProvider, config Config, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PauseAfter <= 0 {
		config.PauseAfter = defaultPauseAfter
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaultCheckInterval
	}
	return &Watcher{
		clock:       clock,
		provider:    provider,
		logger:      logger,
		interval:    config.CheckInterval,
		pauseAfter:  config.PauseAfter,
		enabled:     true,
		unsupported: provider == nil,
	}
}

// Start launches the polling loop. Repeated calls are no-ops.
func (watcher *Watcher) Start() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.stopCh != nil {
		return
	}
	watcher.stopCh = make(chan struct{})
	go watcher.run(watcher.stopCh)
}

// Stop halts the polling loop. Repeated calls are no-ops.
func (watcher *Watcher) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.stopCh == nil {
		return
	}
	close(watcher.stopCh)
	watcher.stopCh = nil
}

// SetEnabled toggles idle pausing without stopping the loop.
func (watcher *Watcher) SetEnabled(enabled bool) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	watcher.enabled = enabled
}

// SetPauseAfter changes the inactivity threshold. Non-positive values
// fall back to the default.
func (watcher *Watcher) SetPauseAfter(threshold time.Duration) {
	if threshold <= 0 {
		threshold = defaultPauseAfter
	}
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	watcher.pauseAfter = threshold
}

func (watcher *Watcher) run(stopCh chan struct{}) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			watcher.checkIdle()
		}
	}
}

func (watcher *Watcher) checkIdle() {
	watcher.mu.Lock()
	active := watcher.enabled && !watcher.unsupported
	pauseAfter := watcher.pauseAfter
	watcher.mu.Unlock()

	if !active {
		return
	}
	if !watcher.clock.State().Running {
		return
	}

	idle, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			watcher.mu.Lock()
			watcher.unsupported = true
			watcher.mu.Unlock()
			watcher.logger.Info("idle detection unsupported, idle pause disabled")
			return
		}
		watcher.logger.Warn("idle probe failed", slog.String("error", err.Error()))
		return
	}

	if idle < pauseAfter {
		return
	}

	watcher.clock.Pause()
	watcher.logger.Info("session paused after inactivity",
		slog.Duration("idle", idle),
		slog.Duration("threshold", pauseAfter))
}
