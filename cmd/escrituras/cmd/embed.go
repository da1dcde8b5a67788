package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/embed"
	"github.com/noahread/escrituras/internal/output"
	"github.com/noahread/escrituras/internal/vector"
)

func newEmbedCmd() *cobra.Command {
	var provider, model, host string
	var dimensions int

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate the embeddings file from the corpus",
		Long: `Embed every verse and write embeddings.bin into the data directory.

The builtin provider needs no external services and always produces the
same vectors for the same corpus. The ollama provider calls a local Ollama
server for real model inference and typically takes several minutes for
the full corpus.

The file is written atomically, so a server running with --watch picks up
the finished file and never sees a partial one.`,
		Example: `  escrituras embed
  escrituras embed --provider ollama --model nomic-embed-text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmbed(cmd, provider, model, host, dimensions)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Embedding provider: builtin or ollama (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Embedding model name (ollama only)")
	cmd.Flags().StringVar(&host, "ollama-host", "", "Ollama endpoint")
	cmd.Flags().IntVar(&dimensions, "dimensions", 0, "Vector dimensionality override")

	return cmd
}

func runEmbed(cmd *cobra.Command, provider, model, host string, dimensions int) error {
	ctx := cmd.Context()
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}
	if provider != "" {
		cfg.Embeddings.Provider = provider
	}
	if model != "" {
		cfg.Embeddings.Model = model
	}
	if host != "" {
		cfg.Embeddings.OllamaHost = host
	}
	if dimensions > 0 {
		cfg.Embeddings.Dimensions = dimensions
	}

	store, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		return cliError(cmd, err)
	}

	lock := embed.NewGenerationLock(cfg.DataDir())
	acquired, err := lock.TryLock()
	if err != nil {
		return cliError(cmd, err)
	}
	if !acquired {
		return cliError(cmd, fmt.Errorf("another embed run holds the lock in %s", cfg.DataDir()))
	}
	defer func() { _ = lock.Unlock() }()

	embedder, err := embed.NewEmbedder(ctx, embed.Options{
		Provider:   cfg.Embeddings.Provider,
		Model:      cfg.Embeddings.Model,
		OllamaHost: cfg.Embeddings.OllamaHost,
		Dimensions: cfg.Embeddings.Dimensions,
		CacheSize:  cfg.Embeddings.CacheSize,
	})
	if err != nil {
		return cliError(cmd, err)
	}
	defer func() { _ = embedder.Close() }()

	verses := store.AllVerses()
	out.Status("📖", fmt.Sprintf("Embedding %d verses with %s (%d dimensions)",
		len(verses), embedder.ModelName(), embedder.Dimensions()))

	ids, vectors, err := embedVerses(ctx, cmd, embedder, verses)
	if err != nil {
		return cliError(cmd, err)
	}

	path := cfg.EmbeddingsPath()
	if err := vector.Write(path, embedder.ModelName(), embedder.Dimensions(), ids, vectors); err != nil {
		return cliError(cmd, err)
	}

	out.Successf("Wrote %d vectors to %s", len(ids), path)
	return nil
}

// embedVerses runs the corpus through the embedder in batches, printing
// progress every few seconds so long Ollama runs show signs of life.
func embedVerses(ctx context.Context, cmd *cobra.Command, embedder embed.Embedder, verses []corpus.Verse) ([]int, [][]float32, error) {
	out := output.New(cmd.OutOrStdout())

	ids := make([]int, 0, len(verses))
	vectors := make([][]float32, 0, len(verses))
	lastReport := time.Now()

	for start := 0; start < len(verses); start += embed.DefaultBatchSize {
		end := start + embed.DefaultBatchSize
		if end > len(verses) {
			end = len(verses)
		}

		texts := make([]string, 0, end-start)
		for _, v := range verses[start:end] {
			texts = append(texts, v.Text)
		}

		batch, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, nil, err
		}

		for i, v := range verses[start:end] {
			ids = append(ids, v.ID)
			vectors = append(vectors, batch[i])
		}

		if time.Since(lastReport) >= 5*time.Second {
			out.Status("⏳", fmt.Sprintf("%d/%d verses embedded", end, len(verses)))
			lastReport = time.Now()
		}
	}

	return ids, vectors, nil
}
