package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vibegpt/playground/pkg/playground"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// PlaygroundConfig defines the structure of the vibegpt config file,
// found at ~/.vibegpt/config.yml unless VIBEGPT_CONFIG points elsewhere.
type PlaygroundConfig struct {
	// EndpointURL is the base URL of the serverless inference endpoint.
	EndpointURL string `yaml:"endpoint_url"`
	// APIKey authorizes requests to the endpoint. VIBEGPT_API_KEY overrides.
	APIKey string `yaml:"api_key,omitempty"`
	// Model is displayed in the TUI header; the endpoint decides what runs.
	Model string `yaml:"model,omitempty"`
	// DataDirectory holds persisted transcripts and session state.
	DataDirectory string `yaml:"data_directory,omitempty"`
	// DefaultCharacter selects the character used when --character is absent.
	DefaultCharacter string `yaml:"default_character,omitempty"`
	// Characters is the persona roster, each with its trait set.
	Characters []playground.Character `yaml:"characters"`
}

func defaultConfig() *PlaygroundConfig {
	return &PlaygroundConfig{
		Model:            "Llama-3-8B-Instruct",
		DefaultCharacter: "sage",
		Characters: []playground.Character{
			{
				ID:   "sage",
				Name: "Sage",
				Traits: []playground.Trait{
					{Name: "warmth", Desc: "kind and encouraging", Color: "#e8a33d", Coeff: 0.7},
					{Name: "curiosity", Desc: "asks follow-up questions", Color: "#3da5e8", Coeff: 0.5},
					{Name: "brevity", Desc: "keeps answers short", Color: "#7de83d", Coeff: 0.0},
				},
			},
		},
	}
}

func configPath() string {
	if path := os.Getenv("VIBEGPT_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(home, ".vibegpt", "config.yml")
}

// loadPlaygroundConfig reads the config file over built-in defaults. A missing
// file is fine; a present but unparseable one is an error the user should see.
func loadPlaygroundConfig() (*PlaygroundConfig, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(configPath())
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath(), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if key := os.Getenv("VIBEGPT_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if url := os.Getenv("VIBEGPT_ENDPOINT"); url != "" {
		cfg.EndpointURL = url
	}
	return cfg, nil
}

// DataDir returns the resolved data directory.
func (c *PlaygroundConfig) DataDir() string {
	if c.DataDirectory != "" {
		return c.DataDirectory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibegpt"
	}
	return filepath.Join(home, ".vibegpt")
}

// HistoryDir returns the directory transcripts are archived under.
func (c *PlaygroundConfig) HistoryDir() string {
	return filepath.Join(c.DataDir(), "history")
}

// CharacterByID finds a roster entry by id, falling back to display name so
// `--character Sage` works too.
func (c *PlaygroundConfig) CharacterByID(id string) (playground.Character, bool) {
	for _, char := range c.Characters {
		if char.ID == id {
			return char, true
		}
	}
	for _, char := range c.Characters {
		if char.Name == id {
			return char, true
		}
	}
	return playground.Character{}, false
}

// ActiveCharacter resolves which character a command should use: the explicit
// request if given, otherwise the last active one, otherwise the default.
func (c *PlaygroundConfig) ActiveCharacter(requested, lastActive string) (playground.Character, error) {
	for _, id := range []string{requested, lastActive, c.DefaultCharacter} {
		if id == "" {
			continue
		}
		if char, ok := c.CharacterByID(id); ok {
			return char, nil
		}
		if id == requested {
			return playground.Character{}, fmt.Errorf("unknown character %q", id)
		}
	}
	if len(c.Characters) > 0 {
		return c.Characters[0], nil
	}
	return playground.Character{}, fmt.Errorf("no characters configured")
}
