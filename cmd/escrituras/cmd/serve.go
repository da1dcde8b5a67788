package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/embed"
	"github.com/noahread/escrituras/internal/mcp"
	"github.com/noahread/escrituras/internal/vector"
	"github.com/noahread/escrituras/internal/watcher"
	"github.com/noahread/escrituras/pkg/version"
)

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scriptures to MCP clients over stdio",
		Long: `Start the MCP server speaking JSON-RPC 2.0 over stdin/stdout.

stdout carries protocol frames exclusively; logs go to the rotating log
file. Semantic search is enabled when a valid embeddings file is present
and degrades to keyword-only search otherwise.

With --watch, the embeddings file is reloaded when it changes, so
'escrituras embed' can restore semantic search without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the embeddings file when it changes")

	return cmd
}

func runServe(cmd *cobra.Command, watch bool) error {
	// The protocol owns stdout; an interactive terminal means no client is
	// attached and every keystroke would be parsed as JSON-RPC.
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return cliError(cmd, fmt.Errorf(
				"serve requires a connected MCP client on stdin; use `escrituras browse` for interactive reading"))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return cliError(cmd, err)
	}
	defer a.Close()

	server, err := mcp.NewServer(a.store, a.engine)
	if err != nil {
		return cliError(cmd, err)
	}

	if watch || cfg.Server.Watch {
		// A reloaded file must match the running embedder just like at
		// startup; the watcher refuses incompatible files instead of dying.
		validate := func(vs *vector.Store) error {
			return embed.CheckCompatibility(vs, a.embedder)
		}
		w, err := watcher.New(cfg.EmbeddingsPath(), a.holder, validate, watcher.DefaultDebounce)
		if err != nil {
			slog.Warn("embeddings watcher unavailable", "error", err)
		} else {
			go func() {
				if err := w.Run(ctx); err != nil {
					slog.Warn("embeddings watcher stopped", "error", err)
				}
			}()
		}
	}

	slog.Info("serving",
		"version", version.Version,
		"verses", a.store.VerseCount(),
		"semantic", a.engine.SemanticAvailable(ctx))

	return server.Serve(ctx)
}
