//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// linuxAutostart uses an XDG autostart desktop entry.
type linuxAutostart struct{}

func newAutostart() Autostart {
	return linuxAutostart{}
}

func desktopFilePath() string {
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		home, _ := os.UserHomeDir()
		cfg = filepath.Join(home, ".config")
	}
	return filepath.Join(cfg, "autostart", "auraclick.desktop")
}

func (linuxAutostart) IsEnabled() bool {
	_, err := os.Stat(desktopFilePath())
	return err == nil
}

func (linuxAutostart) Enable() error {
	path := desktopFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=AuraClick
Comment=Hotkey click automation
Exec=%s
Icon=input-mouse
Terminal=false
Categories=Utility;
X-GNOME-Autostart-enabled=true
`, exe)

	return os.WriteFile(path, []byte(entry), 0644)
}

func (linuxAutostart) Disable() error {
	return os.Remove(desktopFilePath())
}
