package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tomatick/internal/notify"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, 25*time.Minute, settings.Work)
	assert.Equal(t, 5*time.Minute, settings.ShortBreak)
	assert.Equal(t, 15*time.Minute, settings.LongBreak)
	assert.Equal(t, 4, settings.CyclesPerLongBreak)
	assert.True(t, settings.SoundEnabled)
	assert.Equal(t, notify.PermissionDefault, settings.NotificationsAllowed)
	assert.True(t, settings.IdlePauseEnabled)
	assert.Equal(t, 5*time.Minute, settings.IdlePauseAfter)
	assert.False(t, settings.Autostart)
}

func TestSettings_TimerConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.Work = 50 * time.Minute
	settings.CyclesPerLongBreak = 3

	config := settings.TimerConfig()

	assert.Equal(t, 50*time.Minute, config.Work)
	assert.Equal(t, 5*time.Minute, config.ShortBreak)
	assert.Equal(t, 3, config.CyclesPerLongBreak)
}

func TestSettings_TimerConfig_NormalizesBrokenValues(t *testing.T) {
	settings := Settings{Work: -time.Minute}

	config := settings.TimerConfig()

	assert.Equal(t, 25*time.Minute, config.Work)
	assert.Equal(t, 4, config.CyclesPerLongBreak)
}
