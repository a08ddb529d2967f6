package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// State is what a session keeps between runs.
type State struct {
	History   []string            `json:"history"`
	Variables map[string][]string `json:"variables"`
}

// LoadState reads the saved state. A missing state file gives an empty
// state.
func (c *Configuration) LoadState() (*State, error) {
	data, err := afero.ReadFile(c.fs(), StateName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &State{Variables: make(map[string][]string)}, nil
	case err != nil:
		return nil, err
	}

	var out State
	if err := yaml.UnmarshalStrict(data, &out); err != nil {
		return nil, err
	}
	if out.Variables == nil {
		out.Variables = make(map[string][]string)
	}
	return &out, nil
}

// SaveState replaces the saved state.
func (c *Configuration) SaveState(state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return afero.WriteFile(c.fs(), StateName, data, 0600)
}
