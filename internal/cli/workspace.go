package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/plugrel/internal/changelog"
	"github.com/ariel-frischer/plugrel/internal/config"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/git"
	"github.com/ariel-frischer/plugrel/internal/progress"
)

// workspace is the repository and configuration a command operates on.
type workspace struct {
	repo *git.Repo
	cfg  *config.Configuration
	caps progress.TerminalCapabilities
}

// openWorkspace opens the repository at --repo and loads its configuration.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	repo, err := git.Open(repoPath)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, clierrors.NotGitRepository(displayPath(repoPath), err)
		}
		return nil, err
	}

	// go-git falls back to user.name and user.email from the git config.
	repo.SetAuthor(os.Getenv("GIT_AUTHOR_NAME"), os.Getenv("GIT_AUTHOR_EMAIL"))

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir: repo.Root(),
		ConfigPath: configPath,
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}

	return &workspace{
		repo: repo,
		cfg:  cfg,
		caps: progress.DetectTerminalCapabilities(),
	}, nil
}

// repoURL resolves the repository web URL for changelog links from override,
// the configured remote or default_repo_url, in that order.
func (w *workspace) repoURL(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	url := changelog.ResolveRepoURL(ctx, w.repo, w.cfg.Remote, w.cfg.DefaultRepoURL)
	if url == "" {
		return "", clierrors.NoRepoURL(w.cfg.Remote, changelog.ErrNoRepoURL)
	}
	return url, nil
}

// changelogError attaches remediation to changelog failures the user can fix.
func (w *workspace) changelogError(err error) error {
	if errors.Is(err, changelog.ErrNoRepoURL) {
		return clierrors.NoRepoURL(w.cfg.Remote, err)
	}
	return err
}

// path resolves a configured path against the repository root.
func (w *workspace) path(p string) string {
	return config.Resolve(w.repo.Root(), p)
}

func displayPath(p string) string {
	if p == "" {
		return "current directory"
	}
	return p
}
