package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/output"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <reference>",
		Short: "Look up a verse, range, or chapter by reference",
		Long: `Resolve a scripture citation and print its text.

References accept common abbreviations and numbered-book forms:
"John 3:16", "1 Nephi 3:7-8", "D&C 4", "Gen. 1".`,
		Example: `  escrituras lookup "John 3:16"
  escrituras lookup "1 Nephi 3:7-8"
  escrituras lookup "D&C 4"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, strings.Join(args, " "))
		},
	}

	return cmd
}

func runLookup(cmd *cobra.Command, reference string) error {
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

	out := output.New(cmd.OutOrStdout())
	out.Heading(corpus.FormatReference(store, ref))
	out.Verses(verses)
	return nil
}
