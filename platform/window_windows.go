//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"auraclick/config"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	enumWindows          = user32.NewProc("EnumWindows")
	getWindowTextW       = user32.NewProc("GetWindowTextW")
	getWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	isWindowVisible      = user32.NewProc("IsWindowVisible")
	isWindow             = user32.NewProc("IsWindow")
	postMessageW         = user32.NewProc("PostMessageW")
)

const (
	wmLbuttondown = 0x0201
	wmLbuttonup   = 0x0202
	wmRbuttondown = 0x0204
	wmRbuttonup   = 0x0205
)

// windowsClicker delivers clicks with PostMessage, so target windows don't
// need focus and the cursor never moves.
type windowsClicker struct{}

func newWindowClicker() WindowClicker {
	return windowsClicker{}
}

// List returns the visible, titled top-level windows.
func (windowsClicker) List() ([]Window, error) {
	var out []Window

	cb := windows.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		if visible, _, _ := isWindowVisible.Call(hwnd); visible == 0 {
			return 1
		}
		length, _, _ := getWindowTextLengthW.Call(hwnd)
		if length == 0 {
			return 1
		}

		buf := make([]uint16, length+1)
		getWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		out = append(out, Window{Handle: hwnd, Title: windows.UTF16ToString(buf)})
		return 1
	})

	if r, _, err := enumWindows.Call(cb, 0); r == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %w", err)
	}
	return out, nil
}

// Click posts repeat button-down/up pairs at client coordinates (x, y).
func (windowsClicker) Click(w Window, x, y int, button config.Button, repeat int) error {
	if alive, _, _ := isWindow.Call(w.Handle); alive == 0 {
		return fmt.Errorf("window %q is no longer valid", w.Title)
	}

	down, up := uintptr(wmLbuttondown), uintptr(wmLbuttonup)
	if button == config.ButtonRight {
		down, up = wmRbuttondown, wmRbuttonup
	}

	lparam := uintptr(uint32(y)<<16 | uint32(x)&0xffff)
	for i := 0; i < repeat; i++ {
		if r, _, err := postMessageW.Call(w.Handle, down, 0, lparam); r == 0 {
			return fmt.Errorf("PostMessage to %q failed: %w", w.Title, err)
		}
		postMessageW.Call(w.Handle, up, 0, lparam)
		if i < repeat-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}
	return nil
}
