package platform

import (
	"fmt"
	"os"
)

// EnableAutostart registers the app to start at login.
func EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	return enableAutostart(appName, execPath)
}

// DisableAutostart removes the login entry.
func DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}
	return disableAutostart(appName)
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil && dir != "" {
		return dir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}
