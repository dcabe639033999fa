// Package cli implements the plugrel command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/plugrel/internal/changelog"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/git"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)

var (
	configPath string
	repoPath   string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "plugrel",
	Short: "Changelog and release automation for plugin repositories",
	Long: `plugrel turns conventional-commit history into Keep a Changelog sections
and cuts release branches for a plugin whose version lives in
.claude-plugin/plugin.json.

Configuration is read from .plugrel/config.yml in the repository,
~/.config/plugrel/config.yml and PLUGREL_* environment variables.`,
	Example: `  # Preview the changelog section for 1.4.0
  plugrel changelog 1.4.0 --dry-run

  # Cut a minor release after tests pass
  plugrel release minor

  # Release from CI: no prompt, push the branch
  plugrel release patch --ci --changelog`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureDebug(cmd)
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupInfo, Title: "Information:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default .plugrel/config.yml in the repository)")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", "", "Repository path (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Print git and changelog debug output to stderr")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// configureDebug routes the package debug loggers to stderr when --debug is set.
func configureDebug(cmd *cobra.Command) {
	if !debugMode {
		git.SetDebugLogger(nil)
		changelog.SetDebugLogger(nil)
		return
	}
	stderr := cmd.ErrOrStderr()
	logger := func(format string, args ...any) {
		fmt.Fprintf(stderr, format+"\n", args...)
	}
	git.SetDebugLogger(logger)
	changelog.SetDebugLogger(logger)
}

// Execute runs the root command. Errors are printed here; callers only
// need ExitCode to pick the process status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteContext(ctx)
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		clierrors.FprintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}
