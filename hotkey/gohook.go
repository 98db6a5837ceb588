package hotkey

import (
	"sync"
	"sync/atomic"

	hook "github.com/robotn/gohook"

	"auraclick/config"
)

// GohookHook implements Hook on top of robotn/gohook.
//
// hook.End() wipes the library's handler tables along with stopping the
// event loop, so Start registers the full key set every time. Events are
// gated on the active flag across start/stop cycles.
type GohookHook struct {
	active atomic.Bool

	mu     sync.Mutex
	events chan config.Key

	register func(when uint8, cmds []string, cb func(hook.Event))
	start    func() chan hook.Event
	process  func(ch <-chan hook.Event) chan bool
	end      func()
}

// NewGohookHook returns the production hook.
func NewGohookHook() *GohookHook {
	return &GohookHook{
		register: hook.Register,
		start:    hook.Start,
		process:  hook.Process,
		end:      hook.End,
	}
}

// Start registers key-down handlers for the full key set and runs the
// gohook event loop in the background.
func (g *GohookHook) Start() (<-chan config.Key, error) {
	g.mu.Lock()
	g.events = make(chan config.Key, 16)
	events := g.events
	g.mu.Unlock()

	for _, key := range config.AllKeys() {
		key := key
		g.register(hook.KeyDown, []string{key.HookName()}, func(hook.Event) {
			g.emit(key)
		})
	}

	g.active.Store(true)

	ch := g.start()
	go func() {
		<-g.process(ch)

		g.mu.Lock()
		if g.events != nil {
			close(g.events)
			g.events = nil
		}
		g.mu.Unlock()
	}()

	return events, nil
}

// Stop ends the gohook event loop, which closes the event channel.
func (g *GohookHook) Stop() error {
	g.active.Store(false)
	g.end()
	return nil
}

// emit hands a key press to the listener. It must not block the OS hook
// callback, so a full channel drops the event.
func (g *GohookHook) emit(key config.Key) {
	if !g.active.Load() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.events == nil {
		return
	}

	select {
	case g.events <- key:
	default:
	}
}
