// Package clicker executes click actions: it moves the pointer, issues
// clicks, and types char payloads, with a corner failsafe as the
// operator's emergency stop.
package clicker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auraclick/config"
)

// ErrFailsafe is returned when the pointer sits in a screen corner. It is
// an escape hatch for the operator, not a failure to recover from.
var ErrFailsafe = errors.New("failsafe corner triggered")

// Input abstracts OS-level pointer and keyboard simulation.
type Input interface {
	Move(x, y int)
	Click(button config.Button)
	Location() (x, y int)
	ScreenSize() (w, h int)
	TypeStr(s string)
}

// Executor performs click actions through an Input.
type Executor struct {
	input          Input
	clickPause     time.Duration
	failsafeMargin int
}

// NewExecutor returns an executor with a 50ms inter-click pause and a 5px
// failsafe corner margin.
func NewExecutor(input Input) *Executor {
	return &Executor{
		input:          input,
		clickPause:     50 * time.Millisecond,
		failsafeMargin: 5,
	}
}

// Execute performs one click action: resolve the char payload, move the
// pointer to the action's coordinates, click repeat times, then type the
// payload. An action whose char reference resolves to an empty payload is
// skipped entirely.
func (e *Executor) Execute(action config.ClickAction, chars map[string]string) error {
	var payload string
	if action.Char != "" {
		payload = chars[action.Char]
		if payload == "" {
			slog.Debug("Skipping action with empty char payload", "char", action.Char)
			return nil
		}
	}

	if e.failsafeTripped() {
		return ErrFailsafe
	}
	e.input.Move(action.X, action.Y)

	for i := 0; i < action.Repeat; i++ {
		if e.failsafeTripped() {
			return ErrFailsafe
		}
		e.input.Click(action.Button)
		if i < action.Repeat-1 {
			time.Sleep(e.clickPause)
		}
	}

	if payload != "" {
		e.input.TypeStr(payload)
	}

	return nil
}

// ExecuteAll runs a binding's actions strictly in list order, on the
// caller's goroutine. A failsafe abort cancels the remaining actions of the
// binding; any other per-action failure is logged and skipped, never
// retried.
func (e *Executor) ExecuteAll(actions []config.ClickAction, chars map[string]string) error {
	for i, action := range actions {
		err := e.Execute(action, chars)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrFailsafe) {
			return fmt.Errorf("action %d of %d: %w", i+1, len(actions), err)
		}
		slog.Error("Click action failed, skipping", "index", i, "error", err)
	}
	return nil
}

// failsafeTripped reports whether the pointer is within the margin of any
// screen corner.
func (e *Executor) failsafeTripped() bool {
	x, y := e.input.Location()
	w, h := e.input.ScreenSize()
	m := e.failsafeMargin

	nearX := x <= m || x >= w-1-m
	nearY := y <= m || y >= h-1-m
	return nearX && nearY
}
