package changelog

import (
	"context"
	"fmt"
)

// History is the version-control view the generator needs.
type History interface {
	// LatestTag returns the nearest release tag reachable from HEAD.
	// The boolean is false when no release tag exists yet.
	LatestTag(ctx context.Context) (string, bool, error)
	// CommitsSince returns commits in tag..HEAD, newest first.
	// An empty tag means the full history of HEAD.
	CommitsSince(ctx context.Context, tag string) ([]Commit, error)
}

// Generator builds changelog entries from git history.
type Generator struct {
	history History
	parser  *Parser
}

// NewGenerator returns a generator reading from the given history.
func NewGenerator(h History) *Generator {
	return &Generator{history: h, parser: NewParser()}
}

// LatestTag returns the most recent release tag, if any.
// A missing tag is the normal first-release case, not an error.
func (g *Generator) LatestTag(ctx context.Context) (string, bool, error) {
	tag, ok, err := g.history.LatestTag(ctx)
	if err != nil {
		return "", false, fmt.Errorf("finding latest release tag: %w", err)
	}
	logDebug("[changelog] latest tag: %q (found=%v)", tag, ok)
	return tag, ok, nil
}

// CommitsSince returns the commits made after tag, newest first.
func (g *Generator) CommitsSince(ctx context.Context, tag string) ([]Commit, error) {
	commits, err := g.history.CommitsSince(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("reading commit history: %w", err)
	}
	logDebug("[changelog] %d commits since %q", len(commits), tag)
	return commits, nil
}

// GenerateEntries classifies commits and groups the survivors by category.
// Commit order is preserved within each category.
func (g *Generator) GenerateEntries(commits []Commit) Entries {
	entries := make(Entries)
	for _, c := range commits {
		entry, ok := g.parser.Parse(c)
		if !ok {
			logDebug("[changelog] skipping %s: %q", shortHash(c.Hash), c.Subject)
			continue
		}
		entries[entry.Category] = append(entries[entry.Category], entry)
	}
	return entries
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
