//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// darwinAutostart uses a per-user LaunchAgent.
type darwinAutostart struct{}

func newAutostart() Autostart {
	return darwinAutostart{}
}

func launchAgentPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", "com.auraclick.app.plist")
}

// appPath returns the .app bundle path when running from one, otherwise the
// raw executable.
func appPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	if idx := strings.Index(exe, ".app/"); idx != -1 {
		return exe[:idx+4], nil
	}
	return exe, nil
}

func (darwinAutostart) IsEnabled() bool {
	_, err := os.Stat(launchAgentPath())
	return err == nil
}

func (darwinAutostart) Enable() error {
	path, err := appPath()
	if err != nil {
		return err
	}

	args := fmt.Sprintf("<string>%s</string>", path)
	if strings.HasSuffix(path, ".app") {
		args = fmt.Sprintf("<string>/usr/bin/open</string>\n        <string>-a</string>\n        <string>%s</string>", path)
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.auraclick.app</string>
    <key>ProgramArguments</key>
    <array>
        %s
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>`, args)

	return os.WriteFile(launchAgentPath(), []byte(plist), 0644)
}

func (darwinAutostart) Disable() error {
	return os.Remove(launchAgentPath())
}
