// Package systray provides the tray icon and menu for controlling the
// listener without opening the dashboard.
package systray

import (
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/getlantern/systray"
)

// Controller is the slice of the agent the tray menu drives.
type Controller interface {
	StartListener() error
	StopListener() error
	SetPaused(paused bool)
	ListenerRunning() bool
	ListenerPaused() bool
}

// Manager manages the system tray icon and menu.
type Manager struct {
	ctrl     Controller
	webURL   string
	iconData []byte
	quit     chan struct{}
}

// NewManager creates a new systray manager. webURL is empty when the
// dashboard is disabled.
func NewManager(ctrl Controller, webURL string, iconData []byte) *Manager {
	return &Manager{
		ctrl:     ctrl,
		webURL:   webURL,
		iconData: iconData,
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call).
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray.
func (m *Manager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that is closed when the user clicks Quit.
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

func (m *Manager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("AuraClick")
	systray.SetTooltip("AuraClick - Hotkey click automation")

	mStatus := systray.AddMenuItem("Stopped", "Current listener status")
	mStatus.Disable()
	systray.AddSeparator()

	mToggle := systray.AddMenuItem("Start listener", "Start or stop the hotkey listener")
	mPause := systray.AddMenuItem("Pause actions", "Pause or resume hotkey actions")
	var mDashboard *systray.MenuItem
	if m.webURL != "" {
		mDashboard = systray.AddMenuItem("Open dashboard", "Open the AuraClick dashboard")
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit AuraClick")

	// Keep the status and toggle labels in sync with the agent.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			running := m.ctrl.ListenerRunning()
			paused := m.ctrl.ListenerPaused()
			switch {
			case running && paused:
				mStatus.SetTitle("Paused")
			case running:
				mStatus.SetTitle("Running")
			default:
				mStatus.SetTitle("Stopped")
			}
			if running {
				mToggle.SetTitle("Stop listener")
			} else {
				mToggle.SetTitle("Start listener")
			}
			if paused {
				mPause.SetTitle("Resume actions")
			} else {
				mPause.SetTitle("Pause actions")
			}
		}
	}()

	go func() {
		var dashboardCh chan struct{}
		if mDashboard != nil {
			dashboardCh = mDashboard.ClickedCh
		}
		for {
			select {
			case <-mToggle.ClickedCh:
				if m.ctrl.ListenerRunning() {
					if err := m.ctrl.StopListener(); err != nil {
						slog.Error("Failed to stop listener", "error", err)
					}
				} else {
					if err := m.ctrl.StartListener(); err != nil {
						slog.Error("Failed to start listener", "error", err)
					}
				}
			case <-mPause.ClickedCh:
				m.ctrl.SetPaused(!m.ctrl.ListenerPaused())
			case <-dashboardCh:
				m.openDashboard()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

func (m *Manager) onExit() {
	slog.Info("System tray exited")
}

// openDashboard opens the dashboard in the default browser.
func (m *Manager) openDashboard() {
	slog.Info("Opening dashboard", "url", m.webURL)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", m.webURL)
	case "darwin":
		cmd = exec.Command("open", m.webURL)
	case "linux":
		cmd = exec.Command("xdg-open", m.webURL)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}
