package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tomatick/internal/notify"
	"tomatick/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes        int    `yaml:"work_minutes"`
	ShortBreakMinutes  int    `yaml:"short_break_minutes"`
	LongBreakMinutes   int    `yaml:"long_break_minutes"`
	CyclesPerLongBreak int    `yaml:"cycles_per_long_break"`
	SoundEnabled       bool   `yaml:"sound_enabled"`
	Notifications      string `yaml:"notifications"`
	IdlePauseEnabled   bool   `yaml:"idle_pause_enabled"`
	IdlePauseMinutes   int    `yaml:"idle_pause_minutes"`
	Autostart          bool   `yaml:"autostart"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:        int(settings.Work / time.Minute),
		ShortBreakMinutes:  int(settings.ShortBreak / time.Minute),
		LongBreakMinutes:   int(settings.LongBreak / time.Minute),
		CyclesPerLongBreak: settings.CyclesPerLongBreak,
		SoundEnabled:       settings.SoundEnabled,
		Notifications:      string(settings.NotificationsAllowed),
		IdlePauseEnabled:   settings.IdlePauseEnabled,
		IdlePauseMinutes:   int(settings.IdlePauseAfter / time.Minute),
		Autostart:          settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.Work = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreak = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreak = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.CyclesPerLongBreak > 0 {
		settings.CyclesPerLongBreak = fileData.CyclesPerLongBreak
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseMinutes) * time.Minute
	}
	if permission := notify.Permission(fileData.Notifications); permission.Valid() {
		settings.NotificationsAllowed = permission
	}

	settings.SoundEnabled = fileData.SoundEnabled
	settings.IdlePauseEnabled = fileData.IdlePauseEnabled
	settings.Autostart = fileData.Autostart
}
