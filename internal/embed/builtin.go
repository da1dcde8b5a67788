package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"
)

// BuiltinEmbedder generates embeddings with a deterministic hash projection.
// It needs no network and no model download: each word token and character
// trigram is hashed into a fixed bucket and accumulated, then the vector is
// unit-normalized. Semantic quality is modest but identical inputs always
// produce identical vectors, so file and query vectors stay comparable.
type BuiltinEmbedder struct {
	mu     sync.RWMutex
	closed bool
}

var _ Embedder = (*BuiltinEmbedder)(nil)

// Weights for vector accumulation. Word tokens carry most of the signal;
// trigrams keep morphological variants ("believe"/"believeth") nearby.
const (
	tokenWeight   = 0.7
	trigramWeight = 0.3
	trigramSize   = 3
)

// archaicStopWords are high-frequency words of the corpus register that
// carry no topical signal.
var archaicStopWords = map[string]bool{
	"the": true, "and": true, "of": true, "that": true, "to": true,
	"in": true, "he": true, "shall": true, "unto": true, "for": true,
	"i": true, "his": true, "a": true, "they": true, "be": true,
	"is": true, "him": true, "not": true, "them": true, "it": true,
	"with": true, "all": true, "thou": true, "thy": true, "was": true,
	"which": true, "my": true, "me": true, "said": true, "but": true,
	"ye": true, "their": true, "have": true, "will": true, "thee": true,
	"from": true, "as": true, "are": true, "when": true, "this": true,
	"out": true, "were": true, "upon": true, "man": true, "you": true,
	"by": true, "came": true, "up": true, "there": true, "on": true,
	"hath": true, "your": true, "had": true, "she": true, "her": true,
}

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// NewBuiltinEmbedder creates the builtin hash-projection embedder.
func NewBuiltinEmbedder() *BuiltinEmbedder {
	return &BuiltinEmbedder{}
}

// Embed generates the embedding for a single text.
func (e *BuiltinEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, BuiltinDimensions), nil
	}

	return normalizeVector(e.generateVector(trimmed)), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *BuiltinEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		results[i] = vec
	}
	return results, nil
}

// Dimensions returns the embedding dimension.
func (e *BuiltinEmbedder) Dimensions() int { return BuiltinDimensions }

// ModelName returns the model identifier.
func (e *BuiltinEmbedder) ModelName() string { return BuiltinModelName }

// Available reports whether the embedder is ready. The builtin embedder is
// always ready until closed.
func (e *BuiltinEmbedder) Available(_ context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.closed
}

// Close releases resources.
func (e *BuiltinEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *BuiltinEmbedder) generateVector(text string) []float32 {
	vector := make([]float32, BuiltinDimensions)

	for _, token := range tokenize(text) {
		vector[hashToIndex(token, BuiltinDimensions)] += tokenWeight
	}

	normalized := normalizeForTrigrams(text)
	for _, gram := range extractTrigrams(normalized) {
		vector[hashToIndex(gram, BuiltinDimensions)] += trigramWeight
	}

	return vector
}

// tokenize lowercases, splits on non-alphanumerics, and drops stop words.
func tokenize(text string) []string {
	var tokens []string
	for _, word := range tokenPattern.FindAllString(text, -1) {
		lower := strings.ToLower(word)
		if !archaicStopWords[lower] {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// normalizeForTrigrams lowercases and collapses runs of non-alphanumerics
// to single spaces so trigrams span word boundaries consistently.
func normalizeForTrigrams(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func extractTrigrams(text string) []string {
	if len(text) < trigramSize {
		return nil
	}
	grams := make([]string, 0, len(text)-trigramSize+1)
	for i := 0; i+trigramSize <= len(text); i++ {
		grams = append(grams, text[i:i+trigramSize])
	}
	return grams
}

func hashToIndex(s string, buckets int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(buckets))
}
