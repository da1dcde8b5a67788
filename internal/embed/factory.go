package embed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider names accepted in configuration.
const (
	// ProviderBuiltin uses the deterministic hash-projection embedder
	// (default, no external dependencies).
	ProviderBuiltin = "builtin"

	// ProviderOllama uses a local Ollama server for real model inference.
	ProviderOllama = "ollama"
)

// Options selects and tunes the embedding provider.
type Options struct {
	// Provider is "builtin" or "ollama".
	Provider string

	// Model names the Ollama embedding model. Ignored by builtin.
	Model string

	// OllamaHost is the Ollama endpoint (default http://localhost:11434).
	OllamaHost string

	// Dimensions overrides Ollama auto-detection when non-zero.
	Dimensions int

	// CacheSize bounds the query-embedding LRU cache (default 1000).
	CacheSize int

	// Timeout bounds a single inference request.
	Timeout time.Duration
}

// NewEmbedder builds the configured embedder wrapped in an LRU cache.
// An unreachable Ollama is not fatal: the builtin embedder takes over with
// a warning, and semantic search degrades or recovers depending on which
// model generated the embedding file.
func NewEmbedder(ctx context.Context, opts Options) (Embedder, error) {
	var inner Embedder

	switch strings.ToLower(opts.Provider) {
	case ProviderBuiltin, "":
		inner = NewBuiltinEmbedder()

	case ProviderOllama:
		ollama, err := NewOllamaEmbedder(ctx, OllamaConfig{
			Host:       opts.OllamaHost,
			Model:      opts.Model,
			Dimensions: opts.Dimensions,
			Timeout:    opts.Timeout,
		})
		if err != nil {
			slog.Warn("ollama unavailable, falling back to builtin embedder",
				"host", opts.OllamaHost, "error", err)
			inner = NewBuiltinEmbedder()
		} else {
			inner = ollama
		}

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want builtin or ollama)", opts.Provider)
	}

	return NewCachedEmbedder(inner, opts.CacheSize), nil
}
