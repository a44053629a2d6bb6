package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tomatick/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowWindow    func()
	OnToggleRunning func()
	OnReset         func()
	OnSelectSession func(model.SessionType)
	OnPreferences   func()
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	sessionItem *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Focus — ready", nil)
	manager.statusItem.Disabled = true

	showWindow := fyne.NewMenuItem("Show timer", func() {
		if manager.callbacks.OnShowWindow != nil {
			manager.callbacks.OnShowWindow()
		}
	})

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRunning != nil {
			manager.callbacks.OnToggleRunning()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset session", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.sessionItem = fyne.NewMenuItem("Switch session", nil)
	manager.sessionItem.ChildMenu = fyne.NewMenu("", fyne.NewMenuItem("Focus", func() {
		if manager.callbacks.OnSelectSession != nil {
			manager.callbacks.OnSelectSession(model.SessionWork)
		}
	}), fyne.NewMenuItem("Short break", func() {
		if manager.callbacks.OnSelectSession != nil {
			manager.callbacks.OnSelectSession(model.SessionShortBreak)
		}
	}), fyne.NewMenuItem("Long break", func() {
		if manager.callbacks.OnSelectSession != nil {
			manager.callbacks.OnSelectSession(model.SessionLongBreak)
		}
	}))

	preferences := fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})

	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})

	menu := fyne.NewMenu("Tomatick", manager.statusItem, showWindow, manager.toggleItem, manager.resetItem, manager.sessionItem, preferences, quit)
	app.SetSystemTrayMenu(menu)

	return manager
}

// SetStatus updates the status line.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunning flips the start/pause toggle.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "Focus — ready"
	}
	if !manager.running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu("Tomatick",
			manager.statusItem,
			fyne.NewMenuItem("Show timer", func() {
				if manager.callbacks.OnShowWindow != nil {
					manager.callbacks.OnShowWindow()
				}
			}),
			manager.toggleItem,
			manager.resetItem,
			manager.sessionItem,
			fyne.NewMenuItem("Preferences", func() {
				if manager.callbacks.OnPreferences != nil {
					manager.callbacks.OnPreferences()
				}
			}),
			fyne.NewMenuItem("Quit", func() {
				if manager.callbacks.OnQuit != nil {
					manager.callbacks.OnQuit()
				}
			}),
		))
	}
}
