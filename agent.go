package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"auraclick/clicker"
	"auraclick/config"
	"auraclick/hotkey"
	"auraclick/platform"
	"auraclick/storage"
	"auraclick/web"
)

// Agent wires the configuration store, hotkey listener, action executor,
// and storage together, and exposes the control operations the tray and
// dashboard call.
type Agent struct {
	cfgPath  string
	cfg      atomic.Pointer[config.Config]
	listener *hotkey.Listener
	executor *clicker.Executor
	db       *storage.DB
	profiles *config.ProfileManager
	windows  platform.WindowClicker
	web      *web.Server

	// startedAt is set once at construction and read-only after.
	startedAt time.Time
	total     atomic.Int64

	mu      sync.Mutex
	targets []platform.Window
}

// NewAgent creates a new agent instance.
func NewAgent(cfgPath string, cfg *config.Config, db *storage.DB, profiles *config.ProfileManager) *Agent {
	a := &Agent{
		cfgPath:   cfgPath,
		executor:  clicker.NewExecutor(clicker.NewRobotgoInput()),
		db:        db,
		profiles:  profiles,
		windows:   platform.NewWindowClicker(),
		startedAt: time.Now(),
	}
	a.cfg.Store(cfg)
	a.listener = hotkey.NewListener(hotkey.NewGohookHook(), a.dispatch)
	return a
}

// SetWebServer attaches the dashboard server for status broadcasts.
func (a *Agent) SetWebServer(s *web.Server) {
	a.web = s
}

// Run starts the listener and blocks until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.StartListener(); err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	<-ctx.Done()

	if err := a.listener.Stop(); err != nil {
		slog.Error("Failed to stop listener", "error", err)
	}
	return nil
}

// dispatch fires the binding for a pressed hotkey. It runs on the listener
// goroutine; actions execute synchronously and in order.
func (a *Agent) dispatch(key config.Key) {
	cfg := a.cfg.Load()
	actions := cfg.Actions(key)
	if len(actions) == 0 {
		slog.Debug("No binding for hotkey", "hotkey", key.String())
		return
	}

	slog.Info("Executing actions for hotkey", "hotkey", key.String(), "actions", len(actions))
	start := time.Now()

	var execErr error
	if targets := a.Targets(); len(targets) > 0 {
		execErr = a.clickTargets(targets, actions, cfg.CharSettings)
	} else {
		execErr = a.executor.ExecuteAll(actions, cfg.CharSettings)
	}

	a.total.Add(1)

	entry := &storage.Execution{
		Hotkey:      key.String(),
		ActionCount: len(actions),
		DurationMs:  time.Since(start).Milliseconds(),
		Success:     execErr == nil,
	}
	if execErr != nil {
		entry.ErrorMessage = execErr.Error()
		slog.Error("Hotkey execution aborted", "hotkey", key.String(), "error", execErr)
	}

	if err := a.db.RecordExecution(entry); err != nil {
		slog.Error("Failed to record execution", "error", err)
	}
	if a.web != nil {
		a.web.BroadcastExecution(entry)
	}
}

// clickTargets delivers the binding to the selected background windows
// instead of the cursor. Coordinates are window-relative; the failsafe
// does not apply because the cursor never moves.
func (a *Agent) clickTargets(targets []platform.Window, actions []config.ClickAction, chars map[string]string) error {
	var lastErr error
	for _, action := range actions {
		if action.Char != "" && chars[action.Char] == "" {
			slog.Debug("Skipping action with empty char payload", "char", action.Char)
			continue
		}
		for _, target := range targets {
			if err := a.windows.Click(target, action.X, action.Y, action.Button, action.Repeat); err != nil {
				slog.Error("Failed to click window", "window", target.Title, "error", err)
				lastErr = err
			}
		}
	}
	return lastErr
}

// StartListener starts the hotkey listener.
func (a *Agent) StartListener() error {
	if err := a.listener.Start(); err != nil {
		return err
	}
	a.broadcastStatus()
	return nil
}

// StopListener stops the hotkey listener.
func (a *Agent) StopListener() error {
	if err := a.listener.Stop(); err != nil {
		return err
	}
	a.broadcastStatus()
	return nil
}

// SetPaused pauses or resumes action dispatch without stopping the
// listener.
func (a *Agent) SetPaused(paused bool) {
	if paused {
		a.listener.Pause()
		slog.Info("Actions paused")
	} else {
		a.listener.Resume()
		slog.Info("Actions resumed")
	}
	a.broadcastStatus()
}

// ListenerRunning reports whether the listener is running.
func (a *Agent) ListenerRunning() bool {
	return a.listener.Running()
}

// ListenerPaused reports whether dispatch is paused.
func (a *Agent) ListenerPaused() bool {
	return a.listener.Paused()
}

// Status returns the agent state for the control surfaces.
func (a *Agent) Status() web.Status {
	return web.Status{
		Running:         a.listener.Running(),
		Paused:          a.listener.Paused(),
		UptimeSeconds:   int64(time.Since(a.startedAt).Seconds()),
		TotalExecutions: a.total.Load(),
	}
}

// Config returns the current configuration snapshot.
func (a *Agent) Config() *config.Config {
	return a.cfg.Load()
}

// UpdateConfig validates, persists, and swaps in a new configuration. The
// listener observes the swap on its next key event.
func (a *Agent) UpdateConfig(cfg *config.Config) error {
	if err := config.Save(a.cfgPath, cfg); err != nil {
		return err
	}
	a.cfg.Store(cfg.Clone())
	slog.Info("Configuration saved", "path", a.cfgPath)
	return nil
}

// ReloadConfig re-reads the configuration file and swaps it in.
func (a *Agent) ReloadConfig() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg.Store(cfg)
	slog.Info("Configuration reloaded", "path", a.cfgPath)
	return nil
}

// Profiles returns the profile manager.
func (a *Agent) Profiles() *config.ProfileManager {
	return a.profiles
}

// ActivateProfile loads a profile and makes it the active configuration.
func (a *Agent) ActivateProfile(name string) error {
	cfg, err := a.profiles.Load(name)
	if err != nil {
		return err
	}
	a.cfg.Store(cfg)
	slog.Info("Profile activated", "profile", name)
	return nil
}

// ListWindows enumerates targetable windows.
func (a *Agent) ListWindows() ([]platform.Window, error) {
	return a.windows.List()
}

// Targets returns the currently selected target windows.
func (a *Agent) Targets() []platform.Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]platform.Window, len(a.targets))
	copy(out, a.targets)
	return out
}

// SetTargets replaces the target window selection. An empty selection
// routes actions back through the cursor executor.
func (a *Agent) SetTargets(targets []platform.Window) {
	a.mu.Lock()
	a.targets = targets
	a.mu.Unlock()
	slog.Info("Target windows updated", "count", len(targets))
}

func (a *Agent) broadcastStatus() {
	if a.web != nil {
		a.web.BroadcastStatus(a.Status())
	}
}
