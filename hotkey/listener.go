// Package hotkey owns the global hotkey listener: a single background
// goroutine that watches the fixed key set and dispatches matched presses
// to a handler.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"auraclick/config"
)

// ErrAlreadyRunning is returned by Start on a running listener.
var ErrAlreadyRunning = errors.New("hotkey listener already running")

// Hook captures OS-level global key-down events for the watched key set.
// The channel returned by Start must be closed by Stop.
type Hook interface {
	Start() (<-chan config.Key, error)
	Stop() error
}

// Listener owns the stopped/running lifecycle around a Hook and dispatches
// key presses to its handler, synchronously, on the listener goroutine.
type Listener struct {
	hook     Hook
	handler  func(config.Key)
	cooldown time.Duration

	mu      sync.Mutex
	running bool
	paused  bool
	last    map[config.Key]time.Time
	wg      sync.WaitGroup
}

// NewListener wires a hook to a handler. The handler runs on the listener
// goroutine; a slow handler delays subsequent key events, it never loses
// their order.
func NewListener(hook Hook, handler func(config.Key)) *Listener {
	return &Listener{
		hook:     hook,
		handler:  handler,
		cooldown: 10 * time.Millisecond,
		last:     make(map[config.Key]time.Time),
	}
}

// Start spawns the background listener goroutine. Starting a running
// listener returns ErrAlreadyRunning and registers nothing twice.
func (l *Listener) Start() error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}

	events, err := l.hook.Start()
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to start hook: %w", err)
	}
	l.running = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run(events)

	slog.Info("Hotkey listener started", "keys", len(config.AllKeys()))
	return nil
}

// Stop unhooks and joins the listener goroutine. Stopping a stopped
// listener is a no-op.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	l.mu.Unlock()

	if err := l.hook.Stop(); err != nil {
		// The hook is still installed and the goroutine still consuming,
		// so the listener is still running.
		l.mu.Lock()
		l.running = true
		l.mu.Unlock()
		return fmt.Errorf("failed to stop hook: %w", err)
	}
	l.wg.Wait()

	slog.Info("Hotkey listener stopped")
	return nil
}

// Running reports whether the listener goroutine is active.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Pause makes the listener swallow key events without dispatching.
func (l *Listener) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = true
}

// Resume undoes Pause.
func (l *Listener) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = false
}

// Paused reports whether dispatch is currently suppressed.
func (l *Listener) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

func (l *Listener) run(events <-chan config.Key) {
	defer l.wg.Done()

	for key := range events {
		if !l.shouldDispatch(key) {
			continue
		}
		l.handler(key)
	}
}

// shouldDispatch applies the pause gate and the per-key cooldown that
// absorbs OS key auto-repeat.
func (l *Listener) shouldDispatch(key config.Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		slog.Debug("Skipping hotkey, listener paused", "key", key.String())
		return false
	}

	now := time.Now()
	if last, ok := l.last[key]; ok && now.Sub(last) < l.cooldown {
		slog.Debug("Skipping hotkey, cooldown active", "key", key.String())
		return false
	}
	l.last[key] = now
	return true
}
