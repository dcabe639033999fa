package git

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tsuyoshiwada/go-gitlog"

	"github.com/ariel-frischer/plugrel/internal/changelog"
)

// CommitsSince returns the commits in tag..HEAD, newest first. An empty tag
// returns the whole history of HEAD.
//
// The log is read through the git binary via go-gitlog, whose record
// separators keep multi-line bodies intact. go-gitlog runs git in the
// repository root.
func (r *Repo) CommitsSince(ctx context.Context, tag string) ([]changelog.Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := r.repo.Head(); err != nil {
		// An unborn branch has no history to read.
		logDebug("[git] CommitsSince: no HEAD: %v", err)
		return nil, nil
	}

	var rev gitlog.RevArgs = &gitlog.Rev{Ref: "HEAD"}
	if tag != "" {
		rev = &gitlog.RevRange{Old: tag, New: "HEAD"}
	}

	log := gitlog.New(&gitlog.Config{Path: r.root})
	raw, err := log.Log(rev, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "git log %s", strings.Join(rev.Args(), " "))
	}

	commits := make([]changelog.Commit, 0, len(raw))
	for _, c := range raw {
		commits = append(commits, toCommit(c))
	}

	logDebug("[git] CommitsSince(%q): %d commits", tag, len(commits))
	return commits, nil
}

func toCommit(c *gitlog.Commit) changelog.Commit {
	commit := changelog.Commit{
		Subject: strings.TrimSpace(c.Subject),
		Body:    strings.TrimSpace(c.Body),
	}
	if c.Hash != nil {
		commit.Hash = c.Hash.Long
	}
	return commit
}
