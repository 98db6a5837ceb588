// Package platform holds the OS-specific pieces: click delivery to
// background windows and login-item registration.
package platform

import (
	"errors"

	"auraclick/config"
)

// ErrUnsupported is returned where a platform has no implementation.
var ErrUnsupported = errors.New("not supported on this platform")

// Window identifies a visible top-level window.
type Window struct {
	Handle uintptr `json:"handle"`
	Title  string  `json:"title"`
}

// WindowClicker enumerates windows and posts click sequences to them
// directly, without moving the cursor or stealing focus. Coordinates are
// client-relative.
type WindowClicker interface {
	List() ([]Window, error)
	Click(w Window, x, y int, button config.Button, repeat int) error
}

// NewWindowClicker returns the platform's window clicker.
func NewWindowClicker() WindowClicker {
	return newWindowClicker()
}

// Autostart manages launch-on-login registration.
type Autostart interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// NewAutostart returns the platform's autostart handler.
func NewAutostart() Autostart {
	return newAutostart()
}
