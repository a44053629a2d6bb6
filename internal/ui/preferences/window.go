package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tomatick/internal/notify"
)

// Window handles the preferences UI.
type Window struct {
	window         fyne.Window
	settings       Settings
	onSave         func(Settings)
	onCancel       func()
	workEntry      *widget.Entry
	shortEntry     *widget.Entry
	longEntry      *widget.Entry
	cyclesEntry    *widget.Entry
	soundCheck     *widget.Check
	notifyCheck    *widget.Check
	idleCheck      *widget.Check
	idleAfterEntry *widget.Entry
	autostartCheck *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Tomatick Preferences")

	workEntry := widget.NewEntry()
	shortEntry := widget.NewEntry()
	longEntry := widget.NewEntry()
	cyclesEntry := widget.NewEntry()
	idleAfterEntry := widget.NewEntry()

	workEntry.SetText(fmt.Sprintf("%d", int(settings.Work.Minutes())))
	shortEntry.SetText(fmt.Sprintf("%d", int(settings.ShortBreak.Minutes())))
	longEntry.SetText(fmt.Sprintf("%d", int(settings.LongBreak.Minutes())))
	cyclesEntry.SetText(fmt.Sprintf("%d", settings.CyclesPerLongBreak))
	idleAfterEntry.SetText(fmt.Sprintf("%d", int(settings.IdlePauseAfter.Minutes())))

	soundCheck := widget.NewCheck("Play completion sound", nil)
	soundCheck.SetChecked(settings.SoundEnabled)

	notifyCheck := widget.NewCheck("Show desktop notifications", nil)
	notifyCheck.SetChecked(settings.NotificationsAllowed == notify.PermissionGranted)

	idleCheck := widget.NewCheck("Pause the session when idle", nil)
	idleCheck.SetChecked(settings.IdlePauseEnabled)

	autostartCheck := widget.NewCheck("Start Tomatick at login", nil)
	autostartCheck.SetChecked(settings.Autostart)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Sessions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus length"), workEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break length"), shortEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break length"), longEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break every"), cyclesEntry, widget.NewLabel("focus sessions")),
		widget.NewLabelWithStyle("Completion", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		soundCheck,
		notifyCheck,
		widget.NewLabelWithStyle("Desktop", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		idleCheck,
		container.NewHBox(widget.NewLabel("Pause after idle"), idleAfterEntry, widget.NewLabel("min")),
		autostartCheck,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:         window,
		settings:       settings,
		onSave:         onSave,
		workEntry:      workEntry,
		shortEntry:     shortEntry,
		longEntry:      longEntry,
		cyclesEntry:    cyclesEntry,
		soundCheck:     soundCheck,
		notifyCheck:    notifyCheck,
		idleCheck:      idleCheck,
		idleAfterEntry: idleAfterEntry,
		autostartCheck: autostartCheck,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workEntry.SetText(fmt.Sprintf("%d", int(settings.Work.Minutes())))
	prefs.shortEntry.SetText(fmt.Sprintf("%d", int(settings.ShortBreak.Minutes())))
	prefs.longEntry.SetText(fmt.Sprintf("%d", int(settings.LongBreak.Minutes())))
	prefs.cyclesEntry.SetText(fmt.Sprintf("%d", settings.CyclesPerLongBreak))
	prefs.idleAfterEntry.SetText(fmt.Sprintf("%d", int(settings.IdlePauseAfter.Minutes())))
	prefs.soundCheck.SetChecked(settings.SoundEnabled)
	prefs.notifyCheck.SetChecked(settings.NotificationsAllowed == notify.PermissionGranted)
	prefs.idleCheck.SetChecked(settings.IdlePauseEnabled)
	prefs.autostartCheck.SetChecked(settings.Autostart)
}

// SetSessionRunning disables the preset fields the engine refuses to
// apply while a session is running.
func (prefs *Window) SetSessionRunning(running bool) {
	entries := []*widget.Entry{prefs.workEntry, prefs.shortEntry, prefs.longEntry, prefs.cyclesEntry}
	for _, entry := range entries {
		if running {
			entry.Disable()
		} else {
			entry.Enable()
		}
	}
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.workEntry.Text); ok {
		settings.Work = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortEntry.Text); ok {
		settings.ShortBreak = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longEntry.Text); ok {
		settings.LongBreak = time.Duration(minutes) * time.Minute
	}
	if cycles, ok := parsePositiveInt(prefs.cyclesEntry.Text); ok {
		settings.CyclesPerLongBreak = cycles
	}
	if minutes, ok := parsePositiveInt(prefs.idleAfterEntry.Text); ok {
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}

	settings.SoundEnabled = prefs.soundCheck.Checked
	if prefs.notifyCheck.Checked {
		settings.NotificationsAllowed = notify.PermissionGranted
	} else {
		settings.NotificationsAllowed = notify.PermissionDenied
	}
	settings.IdlePauseEnabled = prefs.idleCheck.Checked
	settings.Autostart = prefs.autostartCheck.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
