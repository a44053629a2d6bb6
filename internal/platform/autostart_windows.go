//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableAutostart(appName, execPath string) error {
	quotedPath := quoteWindowsPath(execPath)
	command := exec.Command(
		"reg",
		"add",
		registryRunKey,
		"/v",
		appName,
		"/t",
		"REG_SZ",
		"/d",
		quotedPath,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func disableAutostart(appName string) error {
	command := exec.Command(
		"reg",
		"delete",
		registryRunKey,
		"/v",
		appName,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s"`, trimmed)
}
