package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/noahread/escrituras/internal/config"
	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/embed"
	"github.com/noahread/escrituras/internal/search"
	"github.com/noahread/escrituras/internal/vector"
)

// app holds the initialized stores and engine shared by the commands.
type app struct {
	cfg      *config.Config
	store    *corpus.Store
	index    *search.KeywordIndex
	holder   *vector.Holder
	embedder embed.Embedder
	engine   *search.Engine
}

func (a *app) Close() {
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
}

// loadConfig resolves the effective configuration, honoring --data-dir.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if dataDirFlag != "" {
		cfg.Data.Dir = dataDirFlag
	}
	return cfg, nil
}

// openApp loads the corpus and builds the keyword index, vector store,
// embedder, and hybrid engine. A missing embeddings file or unreachable
// embedder degrades semantic search; a corrupt vector file or a dimension
// or model mismatch between the file and the embedder is fatal.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		return nil, err
	}

	index, err := search.NewKeywordIndex(store)
	if err != nil {
		return nil, err
	}

	holder, err := openVectorStore(cfg.EmbeddingsPath())
	if err != nil {
		return nil, err
	}

	embedder, err := embed.NewEmbedder(ctx, embed.Options{
		Provider:   cfg.Embeddings.Provider,
		Model:      cfg.Embeddings.Model,
		OllamaHost: cfg.Embeddings.OllamaHost,
		Dimensions: cfg.Embeddings.Dimensions,
		CacheSize:  cfg.Embeddings.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	if vs := holder.Get(); vs != nil {
		if err := embed.CheckCompatibility(vs, embedder); err != nil {
			_ = embedder.Close()
			return nil, err
		}
	}

	semantic := search.NewSemanticSearcher(store, holder, embedder)
	engine, err := search.NewEngine(index, semantic, search.EngineConfig{
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
		TitleTierFirst: cfg.Search.TitleTierFirst,
	})
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		index:    index,
		holder:   holder,
		embedder: embedder,
		engine:   engine,
	}, nil
}

// openVectorStore opens the embeddings file. Absence is not an error: the
// returned holder starts empty and the watcher can fill it later.
func openVectorStore(path string) (*vector.Holder, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("embeddings file not found, semantic search disabled",
			"path", path)
		return vector.NewHolder(nil), nil
	}

	vs, err := vector.Open(path)
	if err != nil {
		return nil, err
	}

	slog.Info("embeddings loaded",
		"path", path,
		"model", vs.ModelName(),
		"dimensions", vs.Dimensions(),
		"vectors", vs.Count())
	return vector.NewHolder(vs), nil
}
