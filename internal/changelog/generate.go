package changelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNoRepoURL is returned when neither the git remote nor a configured
// fallback yields the repository's web URL, so no link reference can be built.
var ErrNoRepoURL = errors.New("repository URL unknown")

// SkipReason explains why Generate left the changelog untouched.
type SkipReason int

const (
	// NotSkipped means the changelog was (or in dry-run would be) updated.
	NotSkipped SkipReason = iota
	// SkipVersionExists means the version already has a section.
	SkipVersionExists
	// SkipNoCommits means there are no commits since the last release tag.
	SkipNoCommits
	// SkipNoEntries means no commit produced a changelog entry.
	SkipNoEntries
)

// String returns the user-facing explanation for the skip.
func (r SkipReason) String() string {
	switch r {
	case SkipVersionExists:
		return "version already exists in changelog, skipping"
	case SkipNoCommits:
		return "no commits found since last tag"
	case SkipNoEntries:
		return "no changelog-worthy commits found"
	default:
		return ""
	}
}

// Repository is the git view needed to generate a changelog.
type Repository interface {
	History
	RemoteResolver
}

// Options configures Generate.
type Options struct {
	// Version is the new version, without the "v" prefix.
	Version string
	// Path is the changelog file (default CHANGELOG.md).
	Path string
	// RepoURL overrides the web URL derived from the git remote.
	RepoURL string
	// Remote is the git remote used to derive RepoURL (default origin).
	Remote string
	// FallbackRepoURL is used when the remote cannot be read.
	FallbackRepoURL string
	// Date is the release date; zero means today.
	Date time.Time
	// DryRun previews the change without writing.
	DryRun bool
	// Out receives progress output and dry-run previews.
	Out io.Writer
	// Format controls terminal styling of Out.
	Format FormatOptions
}

// Result describes what Generate did.
type Result struct {
	Updated     bool
	Skip        SkipReason
	LatestTag   string
	CompareBase string
	Entries     Entries
	Section     string
	Link        string
}

// Generate builds the changelog section for opts.Version from the commits
// since the last release tag and merges it into the changelog file.
// Nothing-to-do conditions are reported through Result.Skip, not as errors.
func Generate(ctx context.Context, repo Repository, opts Options) (*Result, error) {
	if opts.Version == "" {
		return nil, fmt.Errorf("version is required")
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}

	repoURL := opts.RepoURL
	if repoURL == "" {
		repoURL = ResolveRepoURL(ctx, repo, opts.Remote, opts.FallbackRepoURL)
	}

	updater := NewUpdater(opts.Path, opts.Out, opts.Format)
	generator := NewGenerator(repo)

	exists, err := updater.VersionExists(opts.Version)
	if err != nil {
		return nil, err
	}
	if exists {
		return &Result{Skip: SkipVersionExists}, nil
	}

	tag, _, err := generator.LatestTag(ctx)
	if err != nil {
		return nil, err
	}

	commits, err := generator.CommitsSince(ctx, tag)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return &Result{Skip: SkipNoCommits, LatestTag: tag}, nil
	}

	entries := generator.GenerateEntries(commits)
	if entries.IsEmpty() {
		return &Result{Skip: SkipNoEntries, LatestTag: tag}, nil
	}

	if repoURL == "" {
		return nil, fmt.Errorf("%w: remote %q is unavailable and no fallback URL is set", ErrNoRepoURL, opts.Remote)
	}

	compareBase := tag
	prev, ok, err := updater.PreviousVersion()
	if err != nil {
		return nil, err
	}
	if ok {
		compareBase = "v" + prev
	}

	section := FormatVersionSection(opts.Version, entries, opts.Date)
	link := FormatLinkReference(opts.Version, repoURL, compareBase)

	updated, err := updater.Update(opts.Version, section, link, opts.DryRun)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Updated:     updated,
		LatestTag:   tag,
		CompareBase: compareBase,
		Entries:     entries,
		Section:     section,
		Link:        link,
	}
	if !updated {
		result.Skip = SkipVersionExists
	}
	return result, nil
}
