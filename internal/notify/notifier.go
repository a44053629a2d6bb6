package notify

import (
	"log/slog"

	"tomatick/internal/core/model"
)

// Permission reflects whether the user allowed desktop notifications.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Valid reports whether the value is one of the known permission states.
func (permission Permission) Valid() bool {
	switch permission {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return true
	}
	return false
}

// TonePlayer plays the completion tone.
type TonePlayer interface {
	PlayTone() error
}

// DesktopNotifier delivers desktop notifications when permitted.
type DesktopNotifier interface {
	Permission() Permission
	ShowNotification(title, body string) error
}

// Notifier fans a finished session out to the completion effects. Every
// effect is best-effort: failures and panics stay inside the notifier,
// and one effect failing never skips the other.
type Notifier struct {
	tone    TonePlayer
	desktop DesktopNotifier
	logger  *slog.Logger
}

// New builds a Notifier around the given capabilities. Either capability
// may be nil; a nil logger falls back to slog.Default().
func New(tone TonePlayer, desktop DesktopNotifier, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{tone: tone, desktop: desktop, logger: logger}
}

// Notify runs the completion effects for the finished session. Safe to
// call from any goroutine.
func (notifier *Notifier) Notify(completed model.SessionType, soundEnabled bool) {
	notifier.playTone(soundEnabled)
	notifier.showNotification(completed)
}

func (notifier *Notifier) playTone(soundEnabled bool) {
	defer notifier.recoverEffect("tone")
	if notifier.tone == nil || !soundEnabled {
		return
	}
	if err := notifier.tone.PlayTone(); err != nil {
		notifier.logger.Warn("completion tone failed", slog.String("error", err.Error()))
	}
}

func (notifier *Notifier) showNotification(completed model.SessionType) {
	defer notifier.recoverEffect("notification")
	if notifier.desktop == nil {
		return
	}
	if permission := notifier.desktop.Permission(); permission != PermissionGranted {
		notifier.logger.Debug("desktop notification skipped",
			slog.String("permission", string(permission)))
		return
	}
	title, body := completionMessage(completed)
	if err := notifier.desktop.ShowNotification(title, body); err != nil {
		notifier.logger.Warn("desktop notification failed", slog.String("error", err.Error()))
	}
}

func (notifier *Notifier) recoverEffect(effect string) {
	if recovered := recover(); recovered != nil {
		notifier.logger.Error("completion effect panicked",
			slog.String("effect", effect), slog.Any("panic", recovered))
	}
}

// completionMessage returns the notification pair for the session that
// just finished.
func completionMessage(completed model.SessionType) (title, body string) {
	switch completed {
	case model.SessionShortBreak:
		return "Short break over", "Back to it. The next focus session is ready."
	case model.SessionLongBreak:
		return "Long break over", "Recharged? The next focus session is ready."
	default:
		return "Focus session complete", "Well done. Time to take a break."
	}
}
