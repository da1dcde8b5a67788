package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noahread/escrituras/configs"
	"github.com/noahread/escrituras/internal/config"
	"github.com/noahread/escrituras/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var project bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with the defaults",
		Long: `Write the commented default configuration to
~/.config/escrituras/config.yaml, or to .escrituras.yaml in the working
directory with --project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, project, force)
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Write .escrituras.yaml in the working directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, project, force bool) error {
	path := config.GetUserConfigPath()
	if project {
		path = ".escrituras.yaml"
	}

	if _, err := os.Stat(path); err == nil && !force {
		return cliError(cmd, fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cliError(cmd, err)
		}
	}
	if err := os.WriteFile(path, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return cliError(cmd, err)
	}

	output.New(cmd.OutOrStdout()).Successf("Wrote %s", path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the merged configuration after defaults, the user file, the
project file, and ESCRITURAS_* environment variables are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd)
		},
	}

	return cmd
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return cliError(cmd, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return cliError(cmd, err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
