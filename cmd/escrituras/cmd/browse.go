package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Read scriptures interactively in the terminal",
		Long: `Open the interactive browser: pick a volume, a book, and a chapter,
then scroll the verse text. Press "/" to search and jump to a result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runBrowse(cmd *cobra.Command, noColor bool) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return cliError(cmd, fmt.Errorf("browse requires an interactive terminal"))
	}

	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}
	a, err := openApp(ctx, cfg)
	if err != nil {
		return cliError(cmd, err)
	}
	defer a.Close()

	return ui.Browse(a.store, a.engine, noColor)
}
