package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 50, cfg.Search.MaxLimit)
	assert.True(t, cfg.Search.TitleTierFirst)
	assert.Equal(t, "builtin", cfg.Embeddings.Provider)
	assert.Equal(t, 256, cfg.Embeddings.Dimensions)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	projectYAML := `
search:
  default_limit: 5
  title_tier_first: false
embeddings:
  provider: ollama
  model: nomic-embed-text
  dimensions: 768
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".escrituras.yaml"), []byte(projectYAML), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.False(t, cfg.Search.TitleTierFirst)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, 768, cfg.Embeddings.Dimensions)
	// Untouched values keep defaults.
	assert.Equal(t, 50, cfg.Search.MaxLimit)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".escrituras.yaml"), []byte("search: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	projectYAML := "embeddings:\n  provider: builtin\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".escrituras.yaml"), []byte(projectYAML), 0o644))

	t.Setenv("ESCRITURAS_EMBEDDER", "ollama")
	t.Setenv("ESCRITURAS_DATA_DIR", "/tmp/scriptures-data")
	t.Setenv("ESCRITURAS_TITLE_TIER_FIRST", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, "/tmp/scriptures-data", cfg.Data.Dir)
	assert.False(t, cfg.Search.TitleTierFirst)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Search.MaxLimit = 1 }},
		{"unknown provider", func(c *Config) { c.Embeddings.Provider = "openai" }},
		{"zero dimensions", func(c *Config) { c.Embeddings.Dimensions = 0 }},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDataDir_ExplicitWins(t *testing.T) {
	cfg := NewConfig()
	cfg.Data.Dir = "/opt/scriptures"

	assert.Equal(t, "/opt/scriptures", cfg.DataDir())
	assert.Equal(t, filepath.Join("/opt/scriptures", CorpusFileName), cfg.CorpusPath())
	assert.Equal(t, filepath.Join("/opt/scriptures", EmbeddingsFileName), cfg.EmbeddingsPath())
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := NewConfig()
	cfg.Search.DefaultLimit = 7
	require.NoError(t, cfg.WriteYAML(path))

	loaded := NewConfig()
	require.NoError(t, loaded.loadYAML(path))
	assert.Equal(t, 7, loaded.Search.DefaultLimit)
}
