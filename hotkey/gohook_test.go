package hotkey

import (
	"sync"
	"testing"
	"time"

	hook "github.com/robotn/gohook"

	"auraclick/config"
)

// fakeGohookLib mimics the library's registration bookkeeping: End clears
// every registered handler along with stopping the event loop.
type fakeGohookLib struct {
	mu   sync.Mutex
	cbs  map[string]func(hook.Event)
	done chan bool
}

func newFakeGohookLib() *fakeGohookLib {
	return &fakeGohookLib{cbs: make(map[string]func(hook.Event))}
}

func (f *fakeGohookLib) register(when uint8, cmds []string, cb func(hook.Event)) {
	f.mu.Lock()
	f.cbs[cmds[0]] = cb
	f.mu.Unlock()
}

func (f *fakeGohookLib) start() chan hook.Event {
	f.mu.Lock()
	f.done = make(chan bool, 1)
	f.mu.Unlock()
	return make(chan hook.Event)
}

func (f *fakeGohookLib) process(ch <-chan hook.Event) chan bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *fakeGohookLib) end() {
	f.mu.Lock()
	f.cbs = make(map[string]func(hook.Event))
	close(f.done)
	f.mu.Unlock()
}

func (f *fakeGohookLib) registered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cbs)
}

func (f *fakeGohookLib) keyDown(t *testing.T, name string) {
	t.Helper()
	f.mu.Lock()
	cb, ok := f.cbs[name]
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no handler registered for %q", name)
	}
	cb(hook.Event{})
}

func newHookWithLib(lib *fakeGohookLib) *GohookHook {
	return &GohookHook{
		register: lib.register,
		start:    lib.start,
		process:  lib.process,
		end:      lib.end,
	}
}

func waitKey(t *testing.T, ch <-chan config.Key) config.Key {
	t.Helper()
	select {
	case key, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed while waiting for a key")
		}
		return key
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a key event")
		return 0
	}
}

func waitClosed(t *testing.T, ch <-chan config.Key) {
	t.Helper()
	select {
	case key, ok := <-ch:
		if ok {
			t.Fatalf("unexpected key %v while waiting for close", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the event channel to close")
	}
}

func TestGohookStartRegistersAllKeys(t *testing.T) {
	lib := newFakeGohookLib()
	g := newHookWithLib(lib)

	events, err := g.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer g.Stop()

	if got, want := lib.registered(), len(config.AllKeys()); got != want {
		t.Fatalf("registered %d handlers, want %d", got, want)
	}

	lib.keyDown(t, "f1")
	if key := waitKey(t, events); key != config.KeyF1 {
		t.Errorf("received %v, want f1", key)
	}
}

func TestGohookDeliversAfterRestart(t *testing.T) {
	lib := newFakeGohookLib()
	g := newHookWithLib(lib)

	events, err := g.Start()
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	if err := g.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	waitClosed(t, events)
	if lib.registered() != 0 {
		t.Fatalf("%d handlers survived End", lib.registered())
	}

	events, err = g.Start()
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	defer g.Stop()

	if got, want := lib.registered(), len(config.AllKeys()); got != want {
		t.Fatalf("registered %d handlers after restart, want %d", got, want)
	}

	lib.keyDown(t, "f2")
	if key := waitKey(t, events); key != config.KeyF2 {
		t.Errorf("received %v after restart, want f2", key)
	}
}

func TestGohookDropsEventsWhileStopped(t *testing.T) {
	lib := newFakeGohookLib()
	g := newHookWithLib(lib)

	events, err := g.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Grab a handler before Stop clears the table; a straggling OS
	// callback arriving after End must not panic or deliver.
	lib.mu.Lock()
	straggler := lib.cbs["f1"]
	lib.mu.Unlock()

	if err := g.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	waitClosed(t, events)

	straggler(hook.Event{})
}
