package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/output"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books [volume]",
		Short: "List books, optionally filtered by volume",
		Example: `  escrituras books
  escrituras books "Book of Mormon"
  escrituras books NT`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooks(cmd, strings.Join(args, " "))
		},
	}

	return cmd
}

func runBooks(cmd *cobra.Command, volume string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}

	store, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		return cliError(cmd, err)
	}

	volumes := store.Volumes()
	if volume != "" {
		vol, ok := store.VolumeByTitle(volume)
		if !ok {
			return cliError(cmd, fmt.Errorf("unknown volume %q", volume))
		}
		volumes = []corpus.Volume{*vol}
	}

	out := output.New(cmd.OutOrStdout())
	out.Books(store, volumes)
	return nil
}
