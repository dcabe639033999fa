package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/plugrel/internal/changelog"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/output"
	"github.com/ariel-frischer/plugrel/internal/release"
)

const dateLayout = "2006-01-02"

var (
	changelogDryRun  bool
	changelogRepoURL string
	changelogDate    string
	changelogPlain   bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <version>",
	Short: "Add a version section to CHANGELOG.md from git history",
	Long: `Generate a Keep a Changelog section for <version> from the commits made
since the latest release tag (vX.Y.Z) and insert it into the changelog.

Conventional commit types map to categories: feat -> Added, fix -> Fixed,
docs/style/refactor/perf/revert -> Changed. test, build, ci and chore commits
are left out. Other subjects are categorized by keywords.

Running the command twice for the same version changes nothing.`,
	Example: `  # Preview without writing
  plugrel changelog 1.2.0 --dry-run

  # Pin the release date and link base
  plugrel changelog 1.2.0 --date 2024-01-15 --repo-url https://github.com/o/r`,
	Args:    versionArg,
	GroupID: GroupRelease,
	RunE:    runChangelog,
}

func init() {
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().BoolVar(&changelogDryRun, "dry-run", false, "Show the section that would be added without writing")
	changelogCmd.Flags().StringVar(&changelogRepoURL, "repo-url", "", "Repository web URL for links (default: derived from the remote)")
	changelogCmd.Flags().StringVar(&changelogDate, "date", "", "Release date as YYYY-MM-DD (default: today)")
	changelogCmd.Flags().BoolVar(&changelogPlain, "plain", false, "Plain text output (no colors/icons)")
}

// versionArg requires exactly one x.y.z argument; a leading v is accepted.
func versionArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("expected 1 version argument, got %d", len(args)),
			cmd.UseLine(),
		)
	}
	if !release.IsExplicitVersion(strings.TrimPrefix(args[0], "v")) {
		return clierrors.InvalidVersion(args[0])
	}
	return nil
}

func runChangelog(cmd *cobra.Command, args []string) error {
	version := strings.TrimPrefix(args[0], "v")

	var date time.Time
	if changelogDate != "" {
		d, err := time.Parse(dateLayout, changelogDate)
		if err != nil {
			return clierrors.InvalidDate(changelogDate)
		}
		date = d
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := changelog.FormatOptions{Plain: changelogPlain || color.NoColor}
	output.PrintHeader(out, "Changelog v"+version)

	result, err := changelog.Generate(cmd.Context(), ws.history(cmd), changelog.Options{
		Version:         version,
		Path:            ws.path(ws.cfg.ChangelogPath),
		RepoURL:         changelogRepoURL,
		Remote:          ws.cfg.Remote,
		FallbackRepoURL: ws.cfg.DefaultRepoURL,
		Date:            date,
		DryRun:          changelogDryRun,
		Out:             out,
		Format:          format,
	})
	if err != nil {
		return ws.changelogError(err)
	}

	if result.Skip != changelog.NotSkipped {
		output.PrintNotice(out, skipMessage(version, result.Skip))
		return nil
	}

	fmt.Fprintf(out, "\n%d entries since %s:\n", result.Entries.Count(), describeTag(result.LatestTag))
	changelog.FormatSummary(out, result.Entries, format)
	return nil
}

// history wraps the repository with a spinner on stderr.
func (w *workspace) history(cmd *cobra.Command) changelog.Repository {
	return spinnerHistory{Repository: w.repo, out: cmd.ErrOrStderr(), caps: w.caps}
}

// skipMessage phrases a skip reason the way the release log shows it.
func skipMessage(version string, reason changelog.SkipReason) string {
	switch reason {
	case changelog.SkipVersionExists:
		return fmt.Sprintf("Version %s already exists in changelog, skipping", version)
	case changelog.SkipNoCommits:
		return "No commits found since last tag"
	case changelog.SkipNoEntries:
		return "No changelog-worthy commits found"
	default:
		return reason.String()
	}
}

func describeTag(tag string) string {
	if tag == "" {
		return "the first commit"
	}
	return tag
}
