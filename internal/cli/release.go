package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/plugrel/internal/changelog"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/output"
	"github.com/ariel-frischer/plugrel/internal/release"
)

var (
	releaseDryRun    bool
	releaseCI        bool
	releaseYes       bool
	releaseChangelog bool
)

// testCommandFunc creates the test process. Tests replace it.
var testCommandFunc release.CommandFunc

var releaseCmd = &cobra.Command{
	Use:   "release [patch|minor|major|x.y.z]",
	Short: "Bump the plugin version and create a release branch",
	Long: `Bump the version in the plugin manifest, run the test suite and commit
the change on a new release/v<version> branch.

The argument is a bump type (default patch) or an explicit version.
Interactive runs ask for confirmation after the tests pass. With --ci there
is no prompt and the branch is pushed so a workflow can open the PR.`,
	Example: `  # Patch release, push the branch yourself
  plugrel release

  # See every step without changing anything
  plugrel release minor --dry-run

  # Release 2.0.0 from CI, updating CHANGELOG.md too
  plugrel release 2.0.0 --ci --changelog`,
	Args:    releaseArg,
	GroupID: GroupRelease,
	RunE:    runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "Show what would be done without running tests or changing files")
	releaseCmd.Flags().BoolVar(&releaseCI, "ci", false, "CI mode: skip the prompt and push the release branch")
	releaseCmd.Flags().BoolVarP(&releaseYes, "yes", "y", false, "Skip the confirmation prompt without pushing")
	releaseCmd.Flags().BoolVar(&releaseChangelog, "changelog", false, "Also add the changelog section to the release commit")
}

// releaseArg accepts at most one bump keyword or explicit version.
func releaseArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("expected at most 1 argument, got %d", len(args)),
			cmd.UseLine(),
		)
	}
	if len(args) == 1 && !release.IsBumpKeyword(args[0]) && !release.IsExplicitVersion(args[0]) {
		return clierrors.InvalidBump(args[0])
	}
	return nil
}

func runRelease(cmd *cobra.Command, args []string) error {
	bump := release.BumpPatch
	if len(args) == 1 {
		bump = args[0]
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	manifest := release.NewManifest(ws.path(ws.cfg.ManifestPath))
	if _, err := manifest.ReadVersion(); err != nil {
		return clierrors.ManifestNotReadable(manifest.Path(), err)
	}
	if branch, err := ws.repo.CurrentBranch(); err == nil && branch == "" {
		output.PrintNotice(out, "HEAD is detached; the release branch starts at the current commit")
	}

	// Resolve the link target before anything is written, so a missing URL
	// cannot leave a bumped manifest behind.
	var repoURL string
	if releaseChangelog {
		if repoURL, err = ws.repoURL(cmd.Context(), ""); err != nil {
			return err
		}
	}

	tests, err := release.NewTestRunner(ws.cfg.TestCommand, ws.repo.Root(), out, cmd.ErrOrStderr())
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid test_command")
	}
	if testCommandFunc != nil {
		tests.WithCommandFunc(testCommandFunc)
	}

	releaser, err := release.NewReleaser(release.Deps{
		Manifest:  manifest,
		Tests:     tests,
		VCS:       spinnerVCS{VCS: ws.repo, out: cmd.ErrOrStderr(), caps: ws.caps},
		Confirm:   promptYesNo(cmd.InOrStdin(), out),
		Changelog: ws.changelogStep(cmd, repoURL),
		Out:       out,
	})
	if err != nil {
		return err
	}

	result, err := releaser.Run(cmd.Context(), release.Options{
		Bump:          bump,
		DryRun:        releaseDryRun,
		CI:            releaseCI,
		Yes:           releaseYes || ws.cfg.SkipConfirmations,
		Remote:        ws.cfg.Remote,
		BranchPrefix:  ws.cfg.BranchPrefix,
		WithChangelog: releaseChangelog,
	})
	switch {
	case errors.Is(err, release.ErrAborted):
		return nil
	case errors.Is(err, release.ErrTestsFailed):
		clierrors.FprintError(cmd.ErrOrStderr(), clierrors.TestsFailed(tests.String(), err))
		return NewExitError(ExitFailure)
	case err != nil:
		return err
	}

	if !releaseDryRun {
		output.PrintSuccess(out, fmt.Sprintf("v%s ready on %s", result.Next, result.Branch))
	}
	return nil
}

// changelogStep adds the changelog section for the new version. It returns
// the file to stage, or "" when nothing changed.
func (w *workspace) changelogStep(cmd *cobra.Command, repoURL string) release.ChangelogFunc {
	return func(ctx context.Context, version string, dryRun bool) (string, error) {
		out := cmd.OutOrStdout()
		path := w.path(w.cfg.ChangelogPath)

		result, err := changelog.Generate(ctx, w.history(cmd), changelog.Options{
			Version:         version,
			Path:            path,
			RepoURL:         repoURL,
			Remote:          w.cfg.Remote,
			FallbackRepoURL: w.cfg.DefaultRepoURL,
			DryRun:          dryRun,
			Out:             out,
			Format:          changelog.FormatOptions{Plain: color.NoColor},
		})
		if err != nil {
			return "", w.changelogError(err)
		}
		if result.Skip != changelog.NotSkipped {
			output.PrintNotice(out, skipMessage(version, result.Skip))
			return "", nil
		}
		return path, nil
	}
}

// promptYesNo asks on out and reads the answer from in. Only "y" or "yes"
// (any case) confirms; end of input declines.
func promptYesNo(in io.Reader, out io.Writer) release.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(question string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", question)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
