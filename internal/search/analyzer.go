package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/registry"
)

// newAnalyzer builds the verse-text analysis chain: unicode tokenization,
// lowercasing, English stopword removal, Porter stemming. Queries and the
// index must go through the same chain or stems will never line up.
func newAnalyzer() (analysis.Analyzer, error) {
	cache := registry.NewCache()

	tokenizer, err := cache.TokenizerNamed(unicode.Name)
	if err != nil {
		return nil, fmt.Errorf("unicode tokenizer: %w", err)
	}
	toLower, err := cache.TokenFilterNamed(lowercase.Name)
	if err != nil {
		return nil, fmt.Errorf("lowercase filter: %w", err)
	}
	stop, err := cache.TokenFilterNamed(en.StopName)
	if err != nil {
		return nil, fmt.Errorf("english stopword filter: %w", err)
	}
	stem, err := cache.TokenFilterNamed(porter.Name)
	if err != nil {
		return nil, fmt.Errorf("porter stemmer: %w", err)
	}

	return &analysis.DefaultAnalyzer{
		Tokenizer:    tokenizer,
		TokenFilters: []analysis.TokenFilter{toLower, stop, stem},
	}, nil
}

// distinctStems analyzes text and returns its stems deduplicated, in first
// occurrence order.
func distinctStems(analyzer analysis.Analyzer, text string) []string {
	tokens := analyzer.Analyze([]byte(text))
	seen := make(map[string]bool, len(tokens))
	stems := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stem := string(tok.Term)
		if !seen[stem] {
			seen[stem] = true
			stems = append(stems, stem)
		}
	}
	return stems
}
