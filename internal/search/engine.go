package search

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	serr "github.com/noahread/escrituras/internal/errors"
)

// EngineConfig tunes the hybrid engine.
type EngineConfig struct {
	// DefaultLimit applies when a caller passes limit <= 0.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// TitleTierFirst places title matches above verses found by both legs.
	TitleTierFirst bool
}

// DefaultEngineConfig returns the standard limits and tier policy.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{DefaultLimit: 10, MaxLimit: 50, TitleTierFirst: true}
}

// Engine runs the keyword and semantic legs in parallel and merges their
// results into tiers. The semantic leg is optional at runtime: when it is
// unavailable or fails, keyword results stand alone.
type Engine struct {
	keyword  *KeywordIndex
	semantic *SemanticSearcher
	config   EngineConfig
}

// NewEngine wires the hybrid engine. keyword is required; semantic may be
// nil for a keyword-only deployment.
func NewEngine(keyword *KeywordIndex, semantic *SemanticSearcher, cfg EngineConfig) (*Engine, error) {
	if keyword == nil {
		return nil, serr.InternalError("search engine requires a keyword index", nil)
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	return &Engine{keyword: keyword, semantic: semantic, config: cfg}, nil
}

// SemanticAvailable reports whether the semantic leg can serve queries.
func (e *Engine) SemanticAvailable(ctx context.Context) bool {
	return e.semantic.Available(ctx)
}

// Search runs the hybrid query. Both legs are asked for limit results
// concurrently; a failed semantic leg degrades to keyword-only (logged,
// not returned), and vice versa. Both legs failing is an error.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = e.config.DefaultLimit
	}
	if limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}

	runSemantic := strings.TrimSpace(query) != "" && e.semantic.Available(ctx)

	var kwResults, semResults []Result
	var kwErr, semErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		kwResults, kwErr = e.keyword.Search(gctx, query, limit)
		return nil
	})
	if runSemantic {
		g.Go(func() error {
			semResults, semErr = e.semantic.Search(gctx, query, limit)
			return nil
		})
	}
	_ = g.Wait() // legs report through their own error slots

	if kwErr != nil && (semErr != nil || !runSemantic) {
		return nil, serr.New(serr.ErrCodeSearchFailed, "all search legs failed", kwErr)
	}
	if kwErr != nil {
		slog.Warn("keyword search failed, returning semantic results only", "error", kwErr)
		kwResults = nil
	}
	if semErr != nil {
		slog.Warn("semantic search failed, returning keyword results only", "error", semErr)
		semResults = nil
	}

	return mergeTiers(kwResults, semResults, limit, e.config.TitleTierFirst), nil
}
