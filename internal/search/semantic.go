package search

import (
	"context"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/embed"
	serr "github.com/noahread/escrituras/internal/errors"
	"github.com/noahread/escrituras/internal/vector"
)

// SemanticSearcher embeds the query and runs an exact cosine scan over the
// stored verse vectors. It reads the vector store through a Holder so a
// watcher reload is picked up without restart.
type SemanticSearcher struct {
	store    *corpus.Store
	holder   *vector.Holder
	embedder embed.Embedder
}

var _ Searcher = (*SemanticSearcher)(nil)

// NewSemanticSearcher wires the semantic leg. holder and embedder may be
// nil or empty; the leg then reports itself unavailable.
func NewSemanticSearcher(store *corpus.Store, holder *vector.Holder, embedder embed.Embedder) *SemanticSearcher {
	return &SemanticSearcher{store: store, holder: holder, embedder: embedder}
}

// Available reports whether this leg can serve queries. False is a
// degraded mode, not an error: the engine falls back to keyword-only.
func (s *SemanticSearcher) Available(ctx context.Context) bool {
	if s == nil || s.embedder == nil || s.holder == nil {
		return false
	}
	return s.holder.Get() != nil && s.embedder.Available(ctx)
}

// Search embeds the query and returns the top limit verses by cosine
// similarity, ties broken by canonical verse id.
func (s *SemanticSearcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	vs := s.holder.Get()
	if vs == nil {
		return nil, serr.New(serr.ErrCodeMissingEmbedding, "no embedding file loaded", nil)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, serr.Wrap(serr.ErrCodeEmbeddingFailed, err)
	}

	matches, err := vs.Scan(queryVec, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		verse, ok := s.store.VerseByID(m.VerseID)
		if !ok {
			// Stale embedding file row; skip rather than fail the query.
			continue
		}
		results = append(results, Result{
			Verse:     verse,
			Score:     float64(m.Score),
			MatchedBy: MatchSemantic,
		})
	}
	return results, nil
}
