package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noahread/escrituras/internal/output"
	"github.com/noahread/escrituras/internal/search"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search scriptures by keywords or meaning",
		Long: `Search verse text with hybrid ranking.

Exact title matches come first, then verses found by both the keyword and
semantic legs, then the single-leg matches. Semantic ranking requires an
embeddings file (see 'escrituras embed'); without one the results are
keyword-only.`,
		Example: `  escrituras search "faith in the Lord"
  escrituras search charity --limit 5
  escrituras search "becoming like a child" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCmd(cmd, strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 = config default)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

// searchResultJSON is the machine-readable wire form of one result.
type searchResultJSON struct {
	Reference string  `json:"reference"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	MatchedBy string  `json:"matched_by"`
}

func runSearchCmd(cmd *cobra.Command, query string, limit int, jsonOutput bool) error {
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

	results, err := a.engine.Search(ctx, query, limit)
	if err != nil {
		return cliError(cmd, err)
	}

	if jsonOutput {
		return writeResultsJSON(cmd, results)
	}

	out := output.New(cmd.OutOrStdout())
	out.SearchResults(query, results)
	return nil
}

func writeResultsJSON(cmd *cobra.Command, results []search.Result) error {
	wire := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		wire = append(wire, searchResultJSON{
			Reference: r.Verse.Title,
			Text:      r.Verse.Text,
			Score:     r.Score,
			MatchedBy: string(r.MatchedBy),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}
