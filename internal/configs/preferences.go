package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultOutputPrefix marks encrypted copies, e.g. enc.notes.txt.
const DefaultOutputPrefix = "enc."

type Preferences struct {
	Encrypt EncryptPreferences `toml:"encrypt"`
	Naming  NamingPreferences  `toml:"naming"`
	Audit   AuditPreferences   `toml:"audit"`
	Store   StorePreferences   `toml:"store"`
}

type EncryptPreferences struct {
	// DefaultLayers is used when --times is not given.
	DefaultLayers int `toml:"default_layers"`
}

type NamingPreferences struct {
	Prefix string `toml:"prefix"`
}

type AuditPreferences struct {
	Disabled bool `toml:"disabled"`
}

type StorePreferences struct {
	Path string `toml:"path,omitempty"`
}

// DefaultPreferences returns the preferences used when no file exists.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Encrypt: EncryptPreferences{DefaultLayers: 1},
		Naming:  NamingPreferences{Prefix: DefaultOutputPrefix},
	}
}

// LoadPreferences reads the preferences file, falling back to defaults for
// a missing file or unset values.
func LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	path := UserMucliSettings.PreferencesPath

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return prefs, nil
	}

	if _, err := toml.DecodeFile(path, prefs); err != nil {
		return nil, fmt.Errorf("failed to load preferences from %s: %w", path, err)
	}

	if prefs.Encrypt.DefaultLayers < 1 {
		prefs.Encrypt.DefaultLayers = 1
	}
	if prefs.Naming.Prefix == "" {
		prefs.Naming.Prefix = DefaultOutputPrefix
	}
	return prefs, nil
}

// SavePreferences writes prefs to the preferences file.
func SavePreferences(prefs *Preferences) error {
	path := UserMucliSettings.PreferencesPath
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(prefs)
}
