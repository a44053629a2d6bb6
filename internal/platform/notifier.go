package platform

import (
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"tomatick/internal/notify"
)

// ErrNotificationsUnavailable indicates no notification backend is attached.
var ErrNotificationsUnavailable = errors.New("notifications unavailable")

// DesktopNotifier sends desktop notifications through the running app and
// owns the user's notification permission state.
type DesktopNotifier struct {
	mu         sync.Mutex
	app        fyne.App
	permission notify.Permission
}

// NewDesktopNotifier wraps the app. The permission starts undecided.
func NewDesktopNotifier(app fyne.App) *DesktopNotifier {
	return &DesktopNotifier{app: app, permission: notify.PermissionDefault}
}

// Permission returns the current notification permission.
func (notifier *DesktopNotifier) Permission() notify.Permission {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.permission
}

// SetPermission restores a persisted decision. Unknown values are ignored.
func (notifier *DesktopNotifier) SetPermission(permission notify.Permission) {
	if !permission.Valid() {
		return
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.permission = permission
}

// RequestPermission promotes an undecided permission to granted and
// returns the resulting state. A denied decision stays denied until the
// user flips it in preferences.
func (notifier *DesktopNotifier) RequestPermission() notify.Permission {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.permission == notify.PermissionDefault {
		notifier.permission = notify.PermissionGranted
	}
	return notifier.permission
}

// ShowNotification sends one desktop notification.
func (notifier *DesktopNotifier) ShowNotification(title, body string) error {
	notifier.mu.Lock()
	app := notifier.app
	notifier.mu.Unlock()

	if app == nil {
		return fmt.Errorf("show notification: %w", ErrNotificationsUnavailable)
	}
	app.SendNotification(fyne.NewNotification(title, body))
	return nil
}
