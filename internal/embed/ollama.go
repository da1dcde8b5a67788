package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	serr "github.com/noahread/escrituras/internal/errors"
)

// DefaultOllamaHost is the default Ollama API endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// ollamaConnectTimeout bounds the initial health check.
const ollamaConnectTimeout = 5 * time.Second

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	// Host is the Ollama API endpoint (default http://localhost:11434).
	Host string

	// Model is the embedding model to use. Required: the model name is
	// written into the embedding file header and checked at startup.
	Model string

	// Dimensions overrides auto-detection when non-zero.
	Dimensions int

	// Timeout bounds a single API request (default 60s).
	Timeout time.Duration

	// SkipHealthCheck skips the initial availability probe (for testing).
	SkipHealthCheck bool
}

// OllamaEmbedder generates embeddings through a local Ollama server's
// /api/embed endpoint.
type OllamaEmbedder struct {
	client    *http.Client
	transport *http.Transport
	config    OllamaConfig
	dims      int

	mu     sync.RWMutex
	closed bool
}

var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an Ollama embedder and, unless skipped, probes
// the server and detects the model's dimensions from a test embedding.
func NewOllamaEmbedder(ctx context.Context, cfg OllamaConfig) (*OllamaEmbedder, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		return nil, serr.ConfigError("ollama embedder requires a model name", nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     10 * time.Second,
	}
	e := &OllamaEmbedder{
		client:    &http.Client{Transport: transport},
		transport: transport,
		config:    cfg,
		dims:      cfg.Dimensions,
	}

	if !cfg.SkipHealthCheck {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		vecs, err := e.embed(probeCtx, []string{"probe"})
		if err != nil {
			transport.CloseIdleConnections()
			return nil, serr.New(serr.ErrCodeNetworkUnavailable,
				fmt.Sprintf("ollama not reachable at %s", cfg.Host), err).
				WithSuggestion("Start Ollama, or set embeddings.provider to \"builtin\".")
		}
		if e.dims == 0 {
			e.dims = len(vecs[0])
		}
	}

	return e, nil
}

// ollamaEmbedRequest is the /api/embed request body.
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaEmbedResponse is the /api/embed response body.
type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

func (e *OllamaEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.config.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.config.Host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, serr.NetworkError("ollama request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serr.NetworkError("reading ollama response", err)
	}

	var parsed ollamaEmbedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("ollama returned invalid JSON: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, serr.New(serr.ErrCodeEmbeddingFailed,
			fmt.Sprintf("ollama embed failed: %s", msg), nil)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, serr.New(serr.ErrCodeEmbeddingFailed,
			fmt.Sprintf("ollama returned %d embeddings for %d inputs",
				len(parsed.Embeddings), len(texts)), nil)
	}

	for i, vec := range parsed.Embeddings {
		parsed.Embeddings[i] = normalizeVector(vec)
	}
	return parsed.Embeddings, nil
}

// Embed generates the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in slices of
// DefaultBatchSize.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += DefaultBatchSize {
		end := min(start+DefaultBatchSize, len(texts))

		reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
		vecs, err := e.embed(reqCtx, texts[start:end])
		cancel()
		if err != nil {
			return nil, err
		}
		results = append(results, vecs...)
	}
	return results, nil
}

// Dimensions returns the embedding dimension (0 until detected).
func (e *OllamaEmbedder) Dimensions() int { return e.dims }

// ModelName returns the model identifier.
func (e *OllamaEmbedder) ModelName() string { return e.config.Model }

// Available probes the server with a short timeout.
func (e *OllamaEmbedder) Available(ctx context.Context) bool {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return false
	}
	e.mu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx, ollamaConnectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.config.Host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Close shuts down the connection pool.
func (e *OllamaEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.transport.CloseIdleConnections()
	}
	return nil
}
