package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/plugrel/internal/config"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/git"
	"github.com/ariel-frischer/plugrel/internal/output"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create plugrel configuration",
	Long: `Inspect or create plugrel configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (PLUGREL_*, PLUGREL_YES=1 skips prompts)
  2. Project config (.plugrel/config.yml, or .plugrel/config.json)
  3. User config (~/.config/plugrel/config.yml)
  4. Built-in defaults`,
	GroupID: GroupConfiguration,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(ws.cfg)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented .plugrel/config.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := git.Open(repoPath)
		if err != nil {
			return clierrors.NotGitRepository(displayPath(repoPath), err)
		}
		path, err := config.WriteDefaultConfig(repo.Root(), configInitForce)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "creating config",
				"Use --force to overwrite the existing file")
		}
		output.PrintSuccess(cmd.OutOrStdout(), "Created "+path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}
