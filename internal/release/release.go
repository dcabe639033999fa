package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAborted is returned when the operator declines the confirmation prompt.
// It is a deliberate early exit, not a failure.
var ErrAborted = errors.New("release aborted")

// DefaultBranchPrefix is prepended to the version to name the release branch.
const DefaultBranchPrefix = "release/v"

// VCS records a release on a branch.
type VCS interface {
	CreateBranch(ctx context.Context, name string) error
	Commit(ctx context.Context, message string, paths ...string) (string, error)
	Push(ctx context.Context, remote, branch string) error
}

// Tester runs the test suite.
type Tester interface {
	Run(ctx context.Context) error
	String() string
}

// ConfirmFunc asks the operator a yes/no question.
type ConfirmFunc func(question string) (bool, error)

// ChangelogFunc updates the changelog for version and returns the file to
// stage with the release commit. An empty path means nothing to stage.
type ChangelogFunc func(ctx context.Context, version string, dryRun bool) (string, error)

// Deps are the collaborators of a Releaser. Changelog and Confirm are optional.
type Deps struct {
	Manifest  *Manifest
	Tests     Tester
	VCS       VCS
	Confirm   ConfirmFunc
	Changelog ChangelogFunc
	Out       io.Writer
}

// Options controls a single release run.
type Options struct {
	// Bump is major, minor, patch or an explicit x.y.z (default patch).
	Bump string
	// DryRun reports every step without running tests or changing anything.
	DryRun bool
	// CI skips the prompt and pushes the release branch.
	CI bool
	// Yes skips the prompt without pushing.
	Yes bool
	// Remote receives the release branch (default origin).
	Remote string
	// BranchPrefix names the branch, e.g. release/v1.2.3 (default release/v).
	BranchPrefix string
	// WithChangelog also updates the changelog before committing.
	WithChangelog bool
}

// Result summarizes a release run.
type Result struct {
	Current string
	Next    string
	Branch  string
	Commit  string
	Pushed  bool
}

// Releaser drives the release flow.
type Releaser struct {
	deps Deps
}

// NewReleaser returns a releaser. Manifest, Tests and VCS are required.
func NewReleaser(deps Deps) (*Releaser, error) {
	if deps.Manifest == nil || deps.Tests == nil || deps.VCS == nil {
		return nil, errors.New("release: manifest, test runner and VCS are required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	return &Releaser{deps: deps}, nil
}

// Run computes the next version and, unless opts.DryRun, runs the tests,
// asks for confirmation, rewrites the manifest and commits it on a new
// release branch. The branch is pushed only in CI mode.
func (r *Releaser) Run(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	out := r.deps.Out

	current, err := r.deps.Manifest.ReadVersion()
	if err != nil {
		return nil, err
	}
	next, err := BumpVersion(current, opts.Bump)
	if err != nil {
		return nil, err
	}

	result := &Result{Current: current, Next: next, Branch: opts.BranchPrefix + next}

	fmt.Fprintf(out, "Release: %s -> %s\n", current, next)
	if opts.DryRun {
		fmt.Fprintln(out, "(dry run - no changes will be made)")
		fmt.Fprintln(out)
	}

	if !opts.DryRun {
		fmt.Fprintf(out, "\nRunning tests (%s)...\n", r.deps.Tests)
		if err := r.deps.Tests.Run(ctx); err != nil {
			fmt.Fprintln(out, "\nTests failed. Aborting release.")
			return result, err
		}
	}

	if !opts.CI && !opts.Yes && !opts.DryRun && r.deps.Confirm != nil {
		ok, err := r.deps.Confirm(fmt.Sprintf("\nProceed with release v%s?", next))
		if err != nil {
			return result, fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return result, ErrAborted
		}
	}

	fmt.Fprintln(out, "\nSteps:")
	step := 1

	fmt.Fprintf(out, "%d. Updating version...\n", step)
	if err := r.deps.Manifest.WriteVersion(next, opts.DryRun, out); err != nil {
		return result, err
	}
	staged := []string{r.deps.Manifest.Path()}

	if opts.WithChangelog && r.deps.Changelog != nil {
		step++
		fmt.Fprintf(out, "%d. Updating changelog...\n", step)
		path, err := r.deps.Changelog(ctx, next, opts.DryRun)
		if err != nil {
			return result, err
		}
		if path != "" {
			staged = append(staged, path)
		}
	}

	step++
	fmt.Fprintf(out, "%d. Creating release branch...\n", step)
	if err := r.recordBranch(ctx, opts, result, staged); err != nil {
		return result, err
	}

	r.printNextSteps(opts, result)
	return result, nil
}

func (r *Releaser) recordBranch(ctx context.Context, opts Options, result *Result, staged []string) error {
	out := r.deps.Out
	branch := result.Branch
	message := "Release v" + result.Next

	if opts.DryRun {
		fmt.Fprintf(out, "  Would run: git checkout -b %s\n", branch)
		fmt.Fprintf(out, "  Would run: git add %s\n", strings.Join(staged, " "))
		fmt.Fprintf(out, "  Would run: git commit -m %q\n", message)
		fmt.Fprintf(out, "  Would run: git push %s %s\n", opts.Remote, branch)
		return nil
	}

	if err := r.deps.VCS.CreateBranch(ctx, branch); err != nil {
		return err
	}
	hash, err := r.deps.VCS.Commit(ctx, message, staged...)
	if err != nil {
		return err
	}
	result.Commit = hash

	if !opts.CI {
		fmt.Fprintf(out, "  Created branch %s\n", branch)
		fmt.Fprintf(out, "  Run: git push %s %s\n", opts.Remote, branch)
		return nil
	}

	if err := r.deps.VCS.Push(ctx, opts.Remote, branch); err != nil {
		return err
	}
	result.Pushed = true
	fmt.Fprintf(out, "  Pushed branch %s\n", branch)
	return nil
}

func (r *Releaser) printNextSteps(opts Options, result *Result) {
	out := r.deps.Out
	if opts.DryRun {
		return
	}
	if opts.CI {
		fmt.Fprintf(out, "\nRelease branch %s pushed. PR will be created by workflow.\n", result.Branch)
		return
	}
	fmt.Fprintf(out, "\nRelease branch %s created.\n", result.Branch)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Push branch: git push %s %s\n", opts.Remote, result.Branch)
	fmt.Fprintln(out, "  2. Create PR to main")
	fmt.Fprintln(out, "  3. After PR merge, tag and release will be created automatically")
}

func withDefaults(opts Options) Options {
	if opts.Bump == "" {
		opts.Bump = BumpPatch
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.BranchPrefix == "" {
		opts.BranchPrefix = DefaultBranchPrefix
	}
	return opts
}
