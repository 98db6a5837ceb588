package config

import "fmt"

// Key is one of the fixed set of bindable global hotkeys. Keeping the set a
// tagged enumeration means an invalid key name can only exist at the config
// boundary, never past it.
type Key int

const (
	KeyF1 Key = iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyBacktick
)

var keyNames = [...]string{
	KeyF1:       "f1",
	KeyF2:       "f2",
	KeyF3:       "f3",
	KeyF4:       "f4",
	KeyF5:       "f5",
	KeyF6:       "f6",
	KeyF7:       "f7",
	KeyF8:       "f8",
	Key0:        "0",
	Key1:        "1",
	Key2:        "2",
	Key3:        "3",
	Key4:        "4",
	Key5:        "5",
	Key6:        "6",
	Key7:        "7",
	Key8:        "8",
	Key9:        "9",
	KeyBacktick: "`",
}

// String returns the key's config-file name.
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// HookName returns the name the OS hook library knows the key by.
func (k Key) HookName() string {
	return k.String()
}

// ParseKey maps a config-file key name to its Key. "backtick" is accepted
// as an alias for "`".
func ParseKey(name string) (Key, error) {
	if name == "backtick" {
		return KeyBacktick, nil
	}
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("unknown hotkey %q", name)
}

// AllKeys returns every bindable key.
func AllKeys() []Key {
	keys := make([]Key, len(keyNames))
	for i := range keyNames {
		keys[i] = Key(i)
	}
	return keys
}
