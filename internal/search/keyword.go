package search

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"

	"github.com/noahread/escrituras/internal/corpus"
	serr "github.com/noahread/escrituras/internal/errors"
)

// KeywordIndex is a read-only inverted index over stemmed verse text,
// built once at startup. Scoring is rarity-weighted: each distinct query
// stem contributes ln(1 + N/df), so a stem appearing in three verses
// dominates one appearing in ten thousand.
type KeywordIndex struct {
	store    *corpus.Store
	analyzer analysis.Analyzer
	postings map[string][]int // stem -> verse ids, canonical order
}

var _ Searcher = (*KeywordIndex)(nil)

// NewKeywordIndex analyzes every verse and builds the postings table.
func NewKeywordIndex(store *corpus.Store) (*KeywordIndex, error) {
	analyzer, err := newAnalyzer()
	if err != nil {
		return nil, serr.InternalError("failed to build text analyzer", err)
	}

	idx := &KeywordIndex{
		store:    store,
		analyzer: analyzer,
		postings: make(map[string][]int),
	}
	for _, verse := range store.AllVerses() {
		for _, stem := range distinctStems(analyzer, verse.Text) {
			idx.postings[stem] = append(idx.postings[stem], verse.ID)
		}
	}
	return idx, nil
}

// StemCount returns the number of distinct indexed stems.
func (k *KeywordIndex) StemCount() int {
	return len(k.postings)
}

// Search returns up to limit verses for the query. Title matches (verse or
// book title containing the raw query, case-insensitive) form a guaranteed
// top tier above stem-scored body matches. An empty or whitespace query is
// a browse: the first limit verses in canonical order.
func (k *KeywordIndex) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return k.browse(limit), nil
	}

	titleIDs := k.titleMatches(trimmed)
	scores := k.scoreStems(trimmed)

	results := make([]Result, 0, len(titleIDs)+len(scores))
	for _, id := range titleIDs {
		verse, _ := k.store.VerseByID(id)
		results = append(results, Result{Verse: verse, Score: scores[id], MatchedBy: MatchTitle})
		delete(scores, id)
	}
	// Title tier first, then body matches; each ordered by score
	// descending with canonical ties.
	sortTier(results)

	body := make([]Result, 0, len(scores))
	for id, score := range scores {
		verse, _ := k.store.VerseByID(id)
		body = append(body, Result{Verse: verse, Score: score, MatchedBy: MatchKeyword})
	}
	sortTier(body)

	results = append(results, body...)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// browse returns the first limit verses in canonical order.
func (k *KeywordIndex) browse(limit int) []Result {
	verses := k.store.AllVerses()
	if len(verses) > limit {
		verses = verses[:limit]
	}
	results := make([]Result, len(verses))
	for i := range verses {
		results[i] = Result{Verse: &verses[i], MatchedBy: MatchKeyword}
	}
	return results
}

// titleMatches returns ids of verses whose verse title or book title
// contains the query, in canonical order.
func (k *KeywordIndex) titleMatches(query string) []int {
	needle := strings.ToLower(query)

	matchingBooks := make(map[int]bool)
	for _, b := range k.store.Books() {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			matchingBooks[b.ID] = true
		}
	}

	var ids []int
	for _, verse := range k.store.AllVerses() {
		if matchingBooks[verse.BookID] || strings.Contains(strings.ToLower(verse.Title), needle) {
			ids = append(ids, verse.ID)
		}
	}
	return ids
}

// scoreStems accumulates per-verse rarity weights over the query's
// distinct stems.
func (k *KeywordIndex) scoreStems(query string) map[int]float64 {
	n := float64(k.store.VerseCount())
	scores := make(map[int]float64)
	for _, stem := range distinctStems(k.analyzer, query) {
		ids := k.postings[stem]
		if len(ids) == 0 {
			continue
		}
		weight := math.Log(1 + n/float64(len(ids)))
		for _, id := range ids {
			scores[id] += weight
		}
	}
	return scores
}

// sortTier orders one tier by score descending, ties by canonical verse id.
func sortTier(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Verse.ID < results[j].Verse.ID
	})
}
