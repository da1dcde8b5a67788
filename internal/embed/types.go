package embed

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultBatchSize is the batch size for embedding generation runs.
	DefaultBatchSize = 32

	// DefaultTimeout bounds a single Ollama embedding request.
	DefaultTimeout = 60 * time.Second

	// BuiltinDimensions is the vector width of the builtin embedder.
	BuiltinDimensions = 256

	// BuiltinModelName identifies builtin vectors in the embedding file
	// header. Query vectors must come from the same model that produced
	// the file, so the name is versioned.
	BuiltinModelName = "hash-projection-v1"
)

// Embedder turns text into vectors in the embedding store's space.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Available reports whether the embedder is ready to serve.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// normalizeVector scales a vector to unit length. Zero vectors pass
// through unchanged.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
