package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlaygroundConfigDefaults(t *testing.T) {
	t.Setenv("VIBEGPT_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("VIBEGPT_API_KEY", "")
	t.Setenv("VIBEGPT_ENDPOINT", "")

	cfg, err := loadPlaygroundConfig()
	require.NoError(t, err)
	assert.Equal(t, "Llama-3-8B-Instruct", cfg.Model)
	assert.Equal(t, "sage", cfg.DefaultCharacter)
	require.NotEmpty(t, cfg.Characters)
	assert.Equal(t, "sage", cfg.Characters[0].ID)
}

func TestLoadPlaygroundConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `endpoint_url: https://inference.example.com/v2/abc
api_key: file-key
model: test-model
default_character: ada
characters:
  - id: ada
    name: Ada
    traits:
      - name: curiosity
        desc: asks questions
        color: "#00ff00"
        coeff: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("VIBEGPT_CONFIG", path)
	t.Setenv("VIBEGPT_API_KEY", "")
	t.Setenv("VIBEGPT_ENDPOINT", "")

	cfg, err := loadPlaygroundConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://inference.example.com/v2/abc", cfg.EndpointURL)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "test-model", cfg.Model)

	char, ok := cfg.CharacterByID("ada")
	require.True(t, ok)
	assert.Equal(t, "Ada", char.Name)
	require.Len(t, char.Traits, 1)
	assert.InDelta(t, 0.8, char.Traits[0].Coeff, 1e-9)

	// Display name lookup works too.
	_, ok = cfg.CharacterByID("Ada")
	assert.True(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: file-key\nendpoint_url: https://file.example.com\n"), 0644))
	t.Setenv("VIBEGPT_CONFIG", path)
	t.Setenv("VIBEGPT_API_KEY", "env-key")
	t.Setenv("VIBEGPT_ENDPOINT", "https://env.example.com")

	cfg, err := loadPlaygroundConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "https://env.example.com", cfg.EndpointURL)
}

func TestLoadPlaygroundConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0644))
	t.Setenv("VIBEGPT_CONFIG", path)

	_, err := loadPlaygroundConfig()
	assert.Error(t, err)
}

func TestActiveCharacterResolution(t *testing.T) {
	cfg := defaultConfig()

	// Explicit request wins.
	char, err := cfg.ActiveCharacter("sage", "")
	require.NoError(t, err)
	assert.Equal(t, "sage", char.ID)

	// Unknown explicit request is an error, not a silent fallback.
	_, err = cfg.ActiveCharacter("nope", "")
	assert.Error(t, err)

	// Unknown last-active falls through to the default.
	char, err = cfg.ActiveCharacter("", "gone")
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultCharacter, char.ID)
}
