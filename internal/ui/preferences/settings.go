package preferences

import (
	"time"

	"tomatick/internal/core/model"
	"tomatick/internal/notify"
)

// Settings defines editable user preferences.
type Settings struct {
	Work                 time.Duration
	ShortBreak           time.Duration
	LongBreak            time.Duration
	CyclesPerLongBreak   int
	SoundEnabled         bool
	NotificationsAllowed notify.Permission
	IdlePauseEnabled     bool
	IdlePauseAfter       time.Duration
	Autostart            bool
}

// DefaultSettings returns default settings for Tomatick.
func DefaultSettings() Settings {
	config := model.DefaultTimerConfig()
	return Settings{
		Work:                 config.Work,
		ShortBreak:           config.ShortBreak,
		LongBreak:            config.LongBreak,
		CyclesPerLongBreak:   config.CyclesPerLongBreak,
		SoundEnabled:         true,
		NotificationsAllowed: notify.PermissionDefault,
		IdlePauseEnabled:     true,
		IdlePauseAfter:       5 * time.Minute,
		Autostart:            false,
	}
}

// TimerConfig converts settings to the engine presets.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Work:               settings.Work,
		ShortBreak:         settings.ShortBreak,
		LongBreak:          settings.LongBreak,
		CyclesPerLongBreak: settings.CyclesPerLongBreak,
	}.Normalized()
}
