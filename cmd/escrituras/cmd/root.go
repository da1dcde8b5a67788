// Package cmd provides the CLI commands for escrituras.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	serr "github.com/noahread/escrituras/internal/errors"
	"github.com/noahread/escrituras/internal/logging"
	"github.com/noahread/escrituras/internal/output"
	"github.com/noahread/escrituras/internal/profiling"
	"github.com/noahread/escrituras/pkg/version"
)

var (
	dataDirFlag string
	debugMode   bool

	profileCPU     string
	profileMem     string
	profiler       = profiling.NewProfiler()
	cpuCleanup     func()
	loggingCleanup func()
)

// NewRootCmd creates the root command for the escrituras CLI.
func NewRootCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "escrituras",
		Short: "Local scripture retrieval engine and MCP server",
		Long: `Escrituras serves the standard works (Old and New Testaments, Book of
Mormon, Doctrine and Covenants, Pearl of Great Price) to MCP clients over
stdio, with exact reference lookup, stemmed keyword search, and semantic
vector search.

Run 'escrituras' with no arguments to start the MCP server, or
'escrituras browse' to read interactively.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runServe(cmd, watch)
		},
	}

	cmd.SetVersionTemplate("escrituras version {{.Version}}\n")

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the embeddings file when it changes")

	cmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the corpus and embeddings files")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")

	cmd.PersistentPreRunE = startLoggingAndProfiling
	cmd.PersistentPostRunE = stopLoggingAndProfiling

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newContextCmd())
	cmd.AddCommand(newBooksCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newEmbedCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLoggingAndProfiling initializes file logging and optional profiling.
// Logs never touch stdout or stderr: stdout belongs to the MCP protocol and
// the human commands own their terminal output.
func startLoggingAndProfiling(_ *cobra.Command, _ []string) error {
	logCfg := logging.ServeConfig()
	if debugMode {
		logCfg.Level = "debug"
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	return nil
}

// stopLoggingAndProfiling flushes profiles and closes the log file.
func stopLoggingAndProfiling(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}

	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}

	return nil
}

// cliError prints a structured error with its suggestion to stderr and
// returns the error for the exit code. Cobra's own printing is silenced.
func cliError(cmd *cobra.Command, err error) error {
	out := output.New(cmd.ErrOrStderr())

	var structured *serr.Error
	if errors.As(err, &structured) {
		out.Error(structured.Message)
		if structured.Suggestion != "" {
			out.Status("💡", structured.Suggestion)
		}
	} else {
		out.Error(err.Error())
	}

	return err
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
