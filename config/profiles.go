package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultProfile is the profile bootstrapped from the active configuration;
// it can be overwritten but never deleted.
const DefaultProfile = "default"

// ProfileManager stores named configuration snapshots under a profiles
// directory, one TOML file per profile. Loading a profile also makes it the
// active configuration.
type ProfileManager struct {
	dir        string
	activePath string
}

// NewProfileManager creates the profiles directory if needed and ensures
// the default profile exists, seeded from the active config when present.
func NewProfileManager(dir, activePath string) (*ProfileManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profiles directory: %w", err)
	}

	pm := &ProfileManager{dir: dir, activePath: activePath}

	defaultPath := pm.path(DefaultProfile)
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		cfg, err := LoadOrCreate(activePath)
		if err != nil {
			return nil, fmt.Errorf("failed to seed default profile: %w", err)
		}
		if err := Save(defaultPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
	}

	return pm, nil
}

func (pm *ProfileManager) path(name string) string {
	return filepath.Join(pm.dir, name+".toml")
}

// validName rejects names that would escape the profiles directory.
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

// List returns the available profile names, sorted.
func (pm *ProfileManager) List() ([]string, error) {
	entries, err := os.ReadDir(pm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the named profile and writes it through to the active
// configuration file.
func (pm *ProfileManager) Load(name string) (*Config, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	cfg, err := Load(pm.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", name, err)
	}

	if err := Save(pm.activePath, cfg); err != nil {
		return nil, fmt.Errorf("failed to activate profile %q: %w", name, err)
	}

	return cfg, nil
}

// Save stores cfg under the given profile name.
func (pm *ProfileManager) Save(name string, cfg *Config) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := Save(pm.path(name), cfg); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", name, err)
	}
	return nil
}

// Delete removes a profile. The default profile is protected.
func (pm *ProfileManager) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if name == DefaultProfile {
		return fmt.Errorf("the %s profile cannot be deleted", DefaultProfile)
	}
	if err := os.Remove(pm.path(name)); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}
