package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Button identifies the mouse button a click action uses.
type Button string

const (
	ButtonLeft  Button = "LEFT"
	ButtonRight Button = "RIGHT"
)

func (b Button) valid() bool {
	return b == ButtonLeft || b == ButtonRight
}

// ClickAction is one simulated click: move the pointer to (X, Y) and press
// Button, Repeat times. Char optionally names a char_settings entry whose
// payload is typed after the clicks. Actions are immutable once loaded and
// replaced wholesale on edit.
type ClickAction struct {
	X      int    `toml:"x" json:"x"`
	Y      int    `toml:"y" json:"y"`
	Button Button `toml:"button" json:"button"`
	Repeat int    `toml:"repeat" json:"repeat"`
	Char   string `toml:"char" json:"char"`
}

// Config is the aggregate of all char settings and hotkey bindings. It is
// the single unit of load/save; there is no partial persistence.
type Config struct {
	CharSettings map[string]string        `toml:"char_settings" json:"char_settings"`
	Hotkeys      map[string][]ClickAction `toml:"hotkeys" json:"hotkeys"`
}

// Error describes a structural problem in a configuration file.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		CharSettings: map[string]string{
			"char1": "U8",
			"char2": "wekwok",
			"char3": "Uboring",
			"char4": "U9",
			"char5": "",
		},
		Hotkeys: map[string][]ClickAction{
			"f1": {
				{X: 490, Y: 711, Button: ButtonLeft, Repeat: 1, Char: "char1"},
			},
		},
	}
}

// Dir returns the application's config directory, creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}

	dir := filepath.Join(base, "auraclick")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// DefaultPath returns the path to the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrCreate loads the configuration at path, writing the default
// configuration there first if the file does not exist.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return Load(path)
}

// Save validates cfg and serializes it wholesale to path.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate checks the configuration shape: every hotkey name must be in the
// fixed key set, every action needs a valid button and a positive repeat
// count, and char references must resolve to a char_settings entry.
func (c *Config) Validate() error {
	if c.CharSettings == nil {
		return &Error{Field: "char_settings", Reason: "missing required table"}
	}
	if c.Hotkeys == nil {
		return &Error{Field: "hotkeys", Reason: "missing required table"}
	}

	for name, actions := range c.Hotkeys {
		if _, err := ParseKey(name); err != nil {
			return &Error{Field: "hotkeys." + name, Reason: err.Error()}
		}

		for i, action := range actions {
			field := fmt.Sprintf("hotkeys.%s[%d]", name, i)
			if !action.Button.valid() {
				return &Error{Field: field + ".button", Reason: fmt.Sprintf("must be LEFT or RIGHT, got %q", action.Button)}
			}
			if action.Repeat < 1 {
				return &Error{Field: field + ".repeat", Reason: fmt.Sprintf("must be a positive integer, got %d", action.Repeat)}
			}
			if action.Char != "" {
				if _, ok := c.CharSettings[action.Char]; !ok {
					return &Error{Field: field + ".char", Reason: fmt.Sprintf("references unknown char_settings entry %q", action.Char)}
				}
			}
		}
	}

	return nil
}

// Actions returns the binding for key, in firing order.
func (c *Config) Actions(key Key) []ClickAction {
	return c.Hotkeys[key.String()]
}

// Clone returns a deep copy, so edits never touch the snapshot the listener
// is reading.
func (c *Config) Clone() *Config {
	out := &Config{
		CharSettings: make(map[string]string, len(c.CharSettings)),
		Hotkeys:      make(map[string][]ClickAction, len(c.Hotkeys)),
	}
	for k, v := range c.CharSettings {
		out.CharSettings[k] = v
	}
	for k, actions := range c.Hotkeys {
		cp := make([]ClickAction, len(actions))
		copy(cp, actions)
		out.Hotkeys[k] = cp
	}
	return out
}
