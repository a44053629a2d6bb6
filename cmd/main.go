package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"tomatick/internal/core/idlewatch"
	"tomatick/internal/core/model"
	"tomatick/internal/core/pomodoro"
	"tomatick/internal/notify"
	"tomatick/internal/platform"
	"tomatick/internal/storage"
	"tomatick/internal/ui/preferences"
	"tomatick/internal/ui/timerwin"
	"tomatick/internal/ui/tray"
	"tomatick/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "Tomatick"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		logger.Error("another instance is already running")
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	fyneApp := app.NewWithID("com.tomatick.app")
	fyneApp.SetIcon(resources.MustIcon("tomato_active.svg"))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("loading settings failed, using defaults", slog.String("error", err.Error()))
	}

	clock := pomodoro.New(settings.TimerConfig(), pomodoro.Config{TickInterval: time.Second})
	clock.SetSoundEnabled(settings.SoundEnabled)

	tonePlayer := platform.NewTonePlayer()
	desktopNotifier := platform.NewDesktopNotifier(fyneApp)
	desktopNotifier.SetPermission(settings.NotificationsAllowed)
	clock.SetNotifier(notify.New(tonePlayer, desktopNotifier, logger))

	watcher := idlewatch.New(clock, platform.NewIdleProvider(), idlewatch.Config{
		PauseAfter: settings.IdlePauseAfter,
	}, logger)
	watcher.SetEnabled(settings.IdlePauseEnabled)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		previous := settings
		settings = updated

		if updated.TimerConfig() != previous.TimerConfig() {
			if err := clock.UpdateConfig(updated.TimerConfig()); err != nil {
				logger.Warn("presets not applied", slog.String("error", err.Error()))
			}
		}

		if updated.NotificationsAllowed == notify.PermissionGranted &&
			previous.NotificationsAllowed == notify.PermissionDefault {
			desktopNotifier.RequestPermission()
		} else {
			desktopNotifier.SetPermission(updated.NotificationsAllowed)
		}

		clock.SetSoundEnabled(updated.SoundEnabled)
		watcher.SetEnabled(updated.IdlePauseEnabled)
		watcher.SetPauseAfter(updated.IdlePauseAfter)

		if updated.Autostart != previous.Autostart {
			applyAutostart(updated.Autostart, logger)
		}

		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("saving settings failed", slog.String("error", err.Error()))
		}
	})

	timerWindow := timerwin.New(fyneApp, clock.State(), timerwin.Callbacks{
		OnStart: clock.Start,
		OnPause: clock.Pause,
		OnReset: clock.Reset,
		OnSelectSession: func(session model.SessionType) {
			if err := clock.SwitchSession(session); err != nil {
				logger.Warn("session switch rejected", slog.String("error", err.Error()))
			}
		},
	})

	activeIcon := resources.MustIcon("tomato_active.svg")
	pausedIcon := resources.MustIcon("tomato_paused.svg")

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShowWindow: timerWindow.Show,
		OnToggleRunning: func() {
			if clock.State().Running {
				clock.Pause()
			} else {
				clock.Start()
			}
		},
		OnReset: clock.Reset,
		OnSelectSession: func(session model.SessionType) {
			if err := clock.SwitchSession(session); err != nil {
				logger.Warn("session switch rejected", slog.String("error", err.Error()))
			}
		},
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			watcher.Stop()
			clock.Stop()
			fyneApp.Quit()
		},
	})

	desktopApp.SetSystemTrayIcon(pausedIcon)
	initial := clock.State()
	trayManager.SetStatus(statusLine(initial.Session, initial.Remaining))
	trayManager.SetRunning(initial.Running)

	events := clock.Subscribe(8)
	go func() {
		for event := range events {
			switch event.Type {
			case pomodoro.EventStateChange:
				handleStateChange(event, timerWindow, trayManager, prefsWindow, desktopApp, activeIcon, pausedIcon)
			case pomodoro.EventProgress:
				handleProgress(event, timerWindow, trayManager)
			case pomodoro.EventSessionComplete:
				logger.Info("session complete",
					slog.String("completed", string(event.Completed)),
					slog.Int("cycles", event.Cycles))
			}
		}
	}()

	watcher.Start()

	timerWindow.Show()
	fyneApp.Run()
}

func handleStateChange(event pomodoro.Event, timerWindow *timerwin.Window, trayManager *tray.Manager, prefsWindow *preferences.Window, desktopApp desktop.App, activeIcon, pausedIcon fyne.Resource) {
	timerWindow.Update(event)
	trayManager.SetStatus(statusLine(event.Session, event.Remaining))
	trayManager.SetRunning(event.Running)
	fyne.Do(func() {
		prefsWindow.SetSessionRunning(event.Running)
		if event.Running {
			desktopApp.SetSystemTrayIcon(activeIcon)
		} else {
			desktopApp.SetSystemTrayIcon(pausedIcon)
		}
	})
}

func handleProgress(event pomodoro.Event, timerWindow *timerwin.Window, trayManager *tray.Manager) {
	timerWindow.Update(event)
	trayManager.SetStatus(statusLine(event.Session, event.Remaining))
}

func statusLine(session model.SessionType, remaining time.Duration) string {
	return fmt.Sprintf("%s — %s left", sessionName(session), formatRemaining(remaining))
}

func sessionName(session model.SessionType) string {
	switch session {
	case model.SessionShortBreak:
		return "Short break"
	case model.SessionLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func applyAutostart(enabled bool, logger *slog.Logger) {
	if !enabled {
		if err := platform.DisableAutostart(appName); err != nil {
			logger.Warn("disabling autostart failed", slog.String("error", err.Error()))
		}
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("autostart not enabled", slog.String("error", err.Error()))
		return
	}
	if err := platform.EnableAutostart(appName, execPath); err != nil {
		logger.Warn("enabling autostart failed", slog.String("error", err.Error()))
	}
}
