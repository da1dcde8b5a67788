package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/config"
	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/embed"
	"github.com/noahread/escrituras/internal/output"
	"github.com/noahread/escrituras/internal/profiling"
	"github.com/noahread/escrituras/internal/vector"
	"github.com/noahread/escrituras/pkg/version"
)

// diagnosis is the machine-readable doctor report.
type diagnosis struct {
	Version          string `json:"version"`
	DataDir          string `json:"data_dir"`
	CorpusPath       string `json:"corpus_path"`
	CorpusOK         bool   `json:"corpus_ok"`
	CorpusError      string `json:"corpus_error,omitempty"`
	VerseCount       int    `json:"verse_count,omitempty"`
	EmbeddingsPath   string `json:"embeddings_path"`
	EmbeddingsOK     bool   `json:"embeddings_ok"`
	EmbeddingsError  string `json:"embeddings_error,omitempty"`
	VectorModel      string `json:"vector_model,omitempty"`
	VectorDimensions int    `json:"vector_dimensions,omitempty"`
	VectorCount      int    `json:"vector_count,omitempty"`
	Provider         string `json:"provider"`
	EmbedderModel    string `json:"embedder_model,omitempty"`
	EmbedderOK       bool   `json:"embedder_ok"`
	SemanticSearch   bool   `json:"semantic_search"`
	HeapBytes        uint64 `json:"heap_bytes"`
}

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the corpus, embeddings, and embedder",
		Long: `Check everything 'escrituras serve' needs and report what state search
will start in.

A missing or stale embeddings file is not fatal: the server starts with
keyword-only search. Run 'escrituras embed' to enable semantic search.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}

func runDoctor(cmd *cobra.Command, jsonOutput bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}

	d := diagnose(ctx, cfg)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	printDiagnosis(output.New(cmd.OutOrStdout()), d)

	if !d.CorpusOK {
		return fmt.Errorf("corpus check failed")
	}
	return nil
}

func diagnose(ctx context.Context, cfg *config.Config) diagnosis {
	d := diagnosis{
		Version:        version.Version,
		DataDir:        cfg.DataDir(),
		CorpusPath:     cfg.CorpusPath(),
		EmbeddingsPath: cfg.EmbeddingsPath(),
		Provider:       cfg.Embeddings.Provider,
		HeapBytes:      profiling.MemStats().HeapAlloc,
	}

	store, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		d.CorpusError = err.Error()
	} else {
		d.CorpusOK = true
		d.VerseCount = store.VerseCount()
	}

	var vs *vector.Store
	if _, err := os.Stat(cfg.EmbeddingsPath()); os.IsNotExist(err) {
		d.EmbeddingsError = "file not found"
	} else if vs, err = vector.Open(cfg.EmbeddingsPath()); err != nil {
		d.EmbeddingsError = err.Error()
	} else {
		d.EmbeddingsOK = true
		d.VectorModel = vs.ModelName()
		d.VectorDimensions = vs.Dimensions()
		d.VectorCount = vs.Count()
	}

	embedder, err := embed.NewEmbedder(ctx, embed.Options{
		Provider:   cfg.Embeddings.Provider,
		Model:      cfg.Embeddings.Model,
		OllamaHost: cfg.Embeddings.OllamaHost,
		Dimensions: cfg.Embeddings.Dimensions,
		CacheSize:  cfg.Embeddings.CacheSize,
	})
	if err == nil {
		d.EmbedderOK = embedder.Available(ctx)
		d.EmbedderModel = embedder.ModelName()
		d.SemanticSearch = d.EmbeddingsOK && d.EmbedderOK &&
			vs.Dimensions() == embedder.Dimensions() &&
			vs.ModelName() == embedder.ModelName()
		_ = embedder.Close()
	}

	return d
}

func printDiagnosis(out *output.Writer, d diagnosis) {
	out.Heading("escrituras doctor")
	out.Status("ℹ️ ", fmt.Sprintf("version %s, data dir %s", d.Version, d.DataDir))
	out.Newline()

	if d.CorpusOK {
		out.Successf("Corpus: %d verses (%s)", d.VerseCount, d.CorpusPath)
	} else {
		out.Errorf("Corpus: %s", d.CorpusError)
	}

	if d.EmbeddingsOK {
		out.Successf("Embeddings: %d vectors, %d dimensions, model %s",
			d.VectorCount, d.VectorDimensions, d.VectorModel)
	} else {
		out.Warningf("Embeddings: %s (run `escrituras embed`)", d.EmbeddingsError)
	}

	if d.EmbedderOK {
		out.Successf("Embedder: %s via %s", d.EmbedderModel, d.Provider)
	} else {
		out.Warningf("Embedder %q unavailable", d.Provider)
	}

	out.Newline()
	if d.SemanticSearch {
		out.Success("Search mode: hybrid (keyword + semantic)")
	} else {
		out.Warning("Search mode: keyword-only (semantic degraded)")
	}
}
