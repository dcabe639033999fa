// Package git provides the repository operations plugrel needs: release tag
// lookup, remote inspection and the release branch, commit and push steps.
// It uses go-git for everything except commit log reading (see log.go).
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// ErrNotRepository is returned when no repository encloses the given path.
var ErrNotRepository = errors.New("not a git repository")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repo is an opened git repository.
type Repo struct {
	repo   *git.Repository
	root   string
	author *object.Signature
}

// Open opens the repository enclosing path, walking up to find .git.
// An empty path means the current working directory.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root: %s", root)
	return &Repo{repo: repo, root: root}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// SetAuthor overrides the commit author. When unset, go-git reads
// user.name and user.email from the git configuration.
func (r *Repo) SetAuthor(name, email string) {
	if name == "" && email == "" {
		r.author = nil
		return
	}
	r.author = &object.Signature{Name: name, Email: email}
}

// CurrentBranch returns the checked-out branch, or "" on a detached HEAD.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// RemoteURL returns the first URL configured for remote.
func (r *Repo) RemoteURL(_ context.Context, remote string) (string, error) {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("looking up remote %q: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remote)
	}
	return urls[0], nil
}

// CreateBranch creates a branch at HEAD and checks it out.
// It fails if the branch already exists.
func (r *Repo) CreateBranch(_ context.Context, name string) error {
	if err := r.checkBranchExists(name); err != nil {
		return err
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	// Keep: the release files are modified but not yet committed.
	err = worktree.Checkout(&git.CheckoutOptions{
		Hash:   head.Hash(),
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("creating branch '%s': %w", name, err)
	}

	logDebug("[git] CreateBranch: created and checked out %s", name)
	return nil
}

func (r *Repo) checkBranchExists(name string) error {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err == nil {
		return fmt.Errorf("branch '%s' already exists", name)
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	return nil
}

// Commit stages paths and records a commit with message.
// Paths may be absolute or relative to the repository root.
// It returns the new commit hash.
func (r *Repo) Commit(_ context.Context, message string, paths ...string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return "", err
		}
		if _, err := worktree.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
		logDebug("[git] staged %s", rel)
	}

	opts := &git.CommitOptions{}
	if r.author != nil {
		sig := *r.author
		sig.When = time.Now()
		opts.Author = &sig
	}
	hash, err := worktree.Commit(message, opts)
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	logDebug("[git] committed %s: %q", hash.String()[:7], message)
	return hash.String(), nil
}

func (r *Repo) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// Push pushes branch to remote and records remote as its upstream.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	url, err := r.RemoteURL(ctx, remote)
	if err != nil {
		return err
	}

	ref := plumbing.NewBranchReferenceName(branch)
	logDebug("[git] pushing %s to remote '%s' (%s)", branch, remote, url)

	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref.String() + ":" + ref.String())},
		Auth:       getAuthForURL(url),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s to %s: %w", branch, remote, err)
	}

	return r.setUpstream(remote, branch)
}

// setUpstream writes branch.<name>.remote and branch.<name>.merge.
func (r *Repo) setUpstream(remote, branch string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("reading repository config: %w", err)
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("setting upstream for %s: %w", branch, err)
	}
	return nil
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		if !isSSHAgentAvailable() {
			logDebug("[git] no SSH agent available for %s", url)
			return nil
		}
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		// A GitHub token works as the username with an empty password.
		username = os.Getenv("GITHUB_TOKEN")
		password = ""
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL detects git@ (SCP-style), ssh:// and git+ssh:// remotes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
