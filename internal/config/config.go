// Package config provides configuration loading for escrituras.
//
// Configuration precedence (lowest to highest):
//  1. Hardcoded defaults (NewConfig)
//  2. User config (~/.config/escrituras/config.yaml)
//  3. Project config (.escrituras.yaml in the working directory)
//  4. Environment variables (ESCRITURAS_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CorpusFileName is the canonical corpus file name inside the data directory.
const CorpusFileName = "lds-scriptures.json"

// EmbeddingsFileName is the precomputed vector file name inside the data directory.
const EmbeddingsFileName = "embeddings.bin"

// Config represents the complete escrituras configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Data       DataConfig       `yaml:"data" json:"data"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// DataConfig configures where the corpus and vector files live.
type DataConfig struct {
	// Dir is the data directory holding the corpus JSON and embeddings file.
	// Empty means auto-discover (./data, then ~/.escrituras/data).
	Dir string `yaml:"dir" json:"dir"`
}

// SearchConfig configures hybrid search behavior.
type SearchConfig struct {
	// DefaultLimit is the result count used when a caller passes none.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// MaxLimit caps the per-request result count.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`

	// TitleTierFirst places exact title matches above the both-methods tier.
	// The precedence between those two tiers is a policy choice, so it is
	// configurable; the default matches observed behavior.
	TitleTierFirst bool `yaml:"title_tier_first" json:"title_tier_first"`
}

// EmbeddingsConfig configures the query embedder.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "builtin" (hash projection, no deps)
	// or "ollama" (local HTTP inference).
	Provider string `yaml:"provider" json:"provider"`

	// Model is the embedding model identifier. For the builtin provider this
	// is fixed; for ollama it names the model to request.
	Model string `yaml:"model" json:"model"`

	// Dimensions is the expected vector dimensionality. Must match the
	// embeddings file header; a mismatch is fatal at startup.
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`

	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Watch reloads the vector store when the embeddings file changes.
	Watch bool `yaml:"watch" json:"watch"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Data:    DataConfig{},
		Search: SearchConfig{
			DefaultLimit:   10,
			MaxLimit:       50,
			TitleTierFirst: true,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "builtin",
			Model:      "hash-projection-v1",
			Dimensions: 256,
			OllamaHost: "http://localhost:11434",
			CacheSize:  1000,
		},
		Server: ServerConfig{
			LogLevel: "info",
			Watch:    false,
		},
	}
}

// GetUserConfigDir returns the user config directory.
func GetUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "escrituras")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "escrituras")
	}
	return filepath.Join(home, ".config", "escrituras")
}

// GetUserConfigPath returns the user config file path.
func GetUserConfigPath() string {
	return filepath.Join(GetUserConfigDir(), "config.yaml")
}

// Load builds the effective configuration for the given working directory.
// Missing files are not errors; malformed files are.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userPath := GetUserConfigPath()
	if fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	projectPath := filepath.Join(dir, ".escrituras.yaml")
	if fileExists(projectPath) {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadYAML merges the YAML file at path into the config.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies ESCRITURAS_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ESCRITURAS_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("ESCRITURAS_EMBEDDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("ESCRITURAS_EMBEDDING_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("ESCRITURAS_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("ESCRITURAS_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("ESCRITURAS_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.DefaultLimit = n
		}
	}
	if v := os.Getenv("ESCRITURAS_TITLE_TIER_FIRST"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Search.TitleTierFirst = b
		}
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) must be >= search.default_limit (%d)",
			c.Search.MaxLimit, c.Search.DefaultLimit)
	}

	switch c.Embeddings.Provider {
	case "builtin", "ollama":
	default:
		return fmt.Errorf("embeddings.provider must be builtin or ollama, got %q", c.Embeddings.Provider)
	}

	if c.Embeddings.Dimensions <= 0 {
		return fmt.Errorf("embeddings.dimensions must be positive, got %d", c.Embeddings.Dimensions)
	}

	switch strings.ToLower(c.Server.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("server.log_level must be debug, info, warn, or error, got %q", c.Server.LogLevel)
	}

	return nil
}

// DataDir resolves the effective data directory.
// Preference: explicit config, ./data (if it holds a corpus), ~/.escrituras/data.
func (c *Config) DataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}

	local := "data"
	if fileExists(filepath.Join(local, CorpusFileName)) {
		return local
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return local
	}
	return filepath.Join(home, ".escrituras", "data")
}

// CorpusPath returns the resolved corpus file path.
func (c *Config) CorpusPath() string {
	return filepath.Join(c.DataDir(), CorpusFileName)
}

// EmbeddingsPath returns the resolved embeddings file path.
func (c *Config) EmbeddingsPath() string {
	return filepath.Join(c.DataDir(), EmbeddingsFileName)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
