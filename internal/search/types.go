// Package search provides hybrid verse search combining stemmed keyword
// matching and semantic vector similarity. Results are merged into tiers
// rather than interleaved, so a title hit always outranks body matches.
package search

import (
	"context"

	"github.com/noahread/escrituras/internal/corpus"
)

// MatchKind records which search leg produced a result.
type MatchKind string

const (
	// MatchTitle marks verses whose verse or book title contains the raw
	// query. Guaranteed top tier.
	MatchTitle MatchKind = "title"

	// MatchBoth marks verses found by both the keyword and semantic legs.
	MatchBoth MatchKind = "both"

	// MatchSemantic marks verses found only by vector similarity.
	MatchSemantic MatchKind = "semantic"

	// MatchKeyword marks verses found only by stemmed keyword matching.
	MatchKeyword MatchKind = "keyword"
)

// Result is one ranked verse.
type Result struct {
	Verse     *corpus.Verse
	Score     float64
	MatchedBy MatchKind
}

// Searcher is one search leg.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
