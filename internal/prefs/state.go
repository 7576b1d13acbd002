// Package prefs persists the session state (items and categories) as a
// small JSON document. Best effort only: load tolerates a missing file and
// save failures must never crash the app.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mchv/adminpilot/internal/store"
)

// State is the on-disk document.
type State struct {
	Items      []store.Item `json:"items"`
	Categories []string     `json:"categories"`
}

// SaveState writes the state atomically (tmp file + rename).
func SaveState(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadState reads a previously saved state. A missing file returns a zero
// State and no error; the caller seeds defaults.
func LoadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}
