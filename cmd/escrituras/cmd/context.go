package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/output"
)

func newContextCmd() *cobra.Command {
	var before, after int

	cmd := &cobra.Command{
		Use:   "context <reference>",
		Short: "Show a verse with its surrounding verses",
		Long: `Print a verse together with the verses before and after it.

Context follows reading order across chapter boundaries but never crosses
into another book. For a range reference the context centers on the first
verse of the range.`,
		Example: `  escrituras context "Alma 32:21"
  escrituras context "Genesis 1:1" --after 5
  escrituras context "John 3:16" --before 3 --after 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(cmd, strings.Join(args, " "), before, after)
		},
	}

	cmd.Flags().IntVar(&before, "before", 2, "Verses to include before the target")
	cmd.Flags().IntVar(&after, "after", 2, "Verses to include after the target")

	return cmd
}

func runContext(cmd *cobra.Command, reference string, before, after int) error {
	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}

	store, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		return cliError(cmd, err)
	}

	ref, err := corpus.ParseReference(store, reference)
	if err != nil {
		return cliError(cmd, err)
	}

	verses, err := store.VersesForReference(ref)
	if err != nil {
		return cliError(cmd, err)
	}

	vctx, err := store.Context(verses[0].ID, before, after)
	if err != nil {
		return cliError(cmd, err)
	}

	out := output.New(cmd.OutOrStdout())
	out.Context(vctx)
	return nil
}
