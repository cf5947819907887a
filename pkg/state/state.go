// Package state persists the small bits of session state that outlive one
// invocation: which character was active and the conversation id the remote
// side associates session state with.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is the local playground state.
type State struct {
	ActiveCharacter string `yaml:"active_character,omitempty"`
	ConversationID  string `yaml:"conversation_id,omitempty"`
}

func statePath(dataDir string) string {
	return filepath.Join(dataDir, "state.yml")
}

// Load reads the state from dataDir. A missing file yields an empty state.
func Load(dataDir string) (*State, error) {
	data, err := os.ReadFile(statePath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &st, nil
}

// Save writes the state to dataDir, creating the directory if needed.
func Save(dataDir string, st *State) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(statePath(dataDir), data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
