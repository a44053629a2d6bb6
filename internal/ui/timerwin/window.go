package timerwin

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tomatick/internal/core/model"
	"tomatick/internal/core/pomodoro"
)

// Callbacks connect the window controls to the timer engine.
type Callbacks struct {
	OnStart         func()
	OnPause         func()
	OnReset         func()
	OnSelectSession func(model.SessionType)
}

// Window is the main timer window.
type Window struct {
	window         fyne.Window
	countdownLabel *canvas.Text
	sessionLabel   *canvas.Text
	cyclesLabel    *widget.Label
	progressBar    *widget.ProgressBar
	startButton    *widget.Button
	pauseButton    *widget.Button
	resetButton    *widget.Button
	sessionSelect  *widget.Select
	callbacks      Callbacks
}

var sessionOptions = []string{"Focus", "Short break", "Long break"}

// New creates the timer window and paints the given snapshot.
func New(app fyne.App, snapshot pomodoro.Snapshot, callbacks Callbacks) *Window {
	window := app.NewWindow("Tomatick")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	countdownLabel := canvas.NewText("--:--", color.NRGBA{R: 231, G: 76, B: 60, A: 255})
	countdownLabel.Alignment = fyne.TextAlignCenter
	countdownLabel.TextStyle = fyne.TextStyle{Bold: true}
	countdownLabel.TextSize = 56

	sessionLabel := canvas.NewText("", color.NRGBA{R: 44, G: 62, B: 80, A: 255})
	sessionLabel.Alignment = fyne.TextAlignCenter
	sessionLabel.TextStyle = fyne.TextStyle{Bold: true}
	sessionLabel.TextSize = 18

	cyclesLabel := widget.NewLabel("")
	cyclesLabel.Alignment = fyne.TextAlignCenter

	progressBar := widget.NewProgressBar()

	startButton := widget.NewButton("Start", nil)
	pauseButton := widget.NewButton("Pause", nil)
	resetButton := widget.NewButton("Reset", nil)

	sessionSelect := widget.NewSelect(sessionOptions, nil)

	content := container.NewVBox(
		sessionLabel,
		countdownLabel,
		progressBar,
		cyclesLabel,
		container.NewGridWithColumns(3, startButton, pauseButton, resetButton),
		sessionSelect,
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 420))
	window.CenterOnScreen()
	window.SetCloseIntercept(window.Hide)

	timer := &Window{
		window:         window,
		countdownLabel: countdownLabel,
		sessionLabel:   sessionLabel,
		cyclesLabel:    cyclesLabel,
		progressBar:    progressBar,
		startButton:    startButton,
		pauseButton:    pauseButton,
		resetButton:    resetButton,
		sessionSelect:  sessionSelect,
		callbacks:      callbacks,
	}

	startButton.OnTapped = func() {
		if timer.callbacks.OnStart != nil {
			timer.callbacks.OnStart()
		}
	}
	pauseButton.OnTapped = func() {
		if timer.callbacks.OnPause != nil {
			timer.callbacks.OnPause()
		}
	}
	resetButton.OnTapped = func() {
		if timer.callbacks.OnReset != nil {
			timer.callbacks.OnReset()
		}
	}
	sessionSelect.OnChanged = timer.handleSessionSelected

	timer.render(snapshot.Session, snapshot.Remaining, snapshot.Running, snapshot.Cycles, snapshot.Progress())

	return timer
}

// Show displays the timer window.
func (timer *Window) Show() {
	timer.window.Show()
	timer.window.RequestFocus()
}

// Hide hides the timer window without stopping the countdown.
func (timer *Window) Hide() {
	timer.window.Hide()
}

// Update repaints the window from a clock event. Safe to call from any
// goroutine.
func (timer *Window) Update(event pomodoro.Event) {
	fyne.Do(func() {
		timer.render(event.Session, event.Remaining, event.Running, event.Cycles, event.Progress)
	})
}

func (timer *Window) handleSessionSelected(selected string) {
	if timer.callbacks.OnSelectSession != nil {
		timer.callbacks.OnSelectSession(sessionFromTitle(selected))
	}
}

func (timer *Window) render(session model.SessionType, remaining time.Duration, running bool, cycles int, progress float64) {
	timer.countdownLabel.Text = formatDuration(remaining)
	timer.countdownLabel.Refresh()

	timer.sessionLabel.Text = sessionTitle(session)
	timer.sessionLabel.Refresh()

	timer.cyclesLabel.SetText(fmt.Sprintf("Completed focus sessions: %d", cycles))
	timer.progressBar.SetValue(progress)

	if running {
		timer.startButton.Disable()
		timer.pauseButton.Enable()
		timer.sessionSelect.Disable()
	} else {
		timer.startButton.Enable()
		timer.pauseButton.Disable()
		timer.sessionSelect.Enable()
	}

	// Assigning Selected directly keeps OnChanged from echoing the
	// session back to the engine as a switch command.
	if title := sessionTitle(session); timer.sessionSelect.Selected != title {
		timer.sessionSelect.Selected = title
		timer.sessionSelect.Refresh()
	}
}

func sessionTitle(session model.SessionType) string {
	switch session {
	case model.SessionShortBreak:
		return "Short break"
	case model.SessionLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

func sessionFromTitle(title string) model.SessionType {
	switch title {
	case "Short break":
		return model.SessionShortBreak
	case "Long break":
		return model.SessionLongBreak
	default:
		return model.SessionWork
	}
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
