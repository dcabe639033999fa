package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go-gitlog changes the working directory while it runs, so these tests
// are not parallel.

func subjects(t *testing.T, r *Repo, tag string) []string {
	t.Helper()
	commits, err := r.CommitsSince(context.Background(), tag)
	require.NoError(t, err)
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Subject)
	}
	return out
}

func TestRepo_CommitsSince(t *testing.T) {
	requireGitBinary(t)

	tr := newTestRepo(t)
	tr.commit("feat: first")
	tr.tag("v0.1.0", tr.commit("fix: second"))
	tr.commit("feat: third (#3)")
	tr.commit("docs: fourth")
	r := tr.open()

	assert.Equal(t, []string{"docs: fourth", "feat: third (#3)"}, subjects(t, r, "v0.1.0"))
	assert.Equal(t,
		[]string{"docs: fourth", "feat: third (#3)", "fix: second", "feat: first"},
		subjects(t, r, ""))
}

func TestRepo_CommitsSince_HashAndBody(t *testing.T) {
	requireGitBinary(t)

	tr := newTestRepo(t)
	worktree, err := tr.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tr.dir, "a.txt"), []byte("a"), 0o644))
	_, err = worktree.Add("a.txt")
	require.NoError(t, err)

	message := "feat!: new config format\n\nBREAKING CHANGE: old files are rejected\n\nSecond paragraph."
	hash, err := worktree.Commit(message, &git.CommitOptions{Author: tr.signature()})
	require.NoError(t, err)

	commits, err := tr.open().CommitsSince(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, commits, 1)

	c := commits[0]
	assert.Equal(t, hash.String(), c.Hash)
	assert.Equal(t, "feat!: new config format", c.Subject)
	assert.Contains(t, c.Body, "BREAKING CHANGE: old files are rejected")
	assert.Contains(t, c.Body, "Second paragraph.")
	assert.Empty(t, c.PRNumber)
}

func TestRepo_CommitsSince_TagAtHead(t *testing.T) {
	requireGitBinary(t)

	tr := newTestRepo(t)
	tr.tag("v1.0.0", tr.commit("feat: only"))

	assert.Empty(t, subjects(t, tr.open(), "v1.0.0"))
}

func TestRepo_CommitsSince_EmptyRepository(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)
	commits, err := tr.open().CommitsSince(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestRepo_CommitsSince_UnknownTag(t *testing.T) {
	requireGitBinary(t)

	tr := newTestRepo(t)
	tr.commit("feat: only")

	_, err := tr.open().CommitsSince(context.Background(), "v9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v9.9.9..HEAD")
}

func TestRepo_CommitsSince_Cancelled(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)
	tr.commit("feat: only")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.open().CommitsSince(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepo_CommitsSince_AfterMergingOldRelease(t *testing.T) {
	requireGitBinary(t)

	tr := newTestRepo(t)
	mergedOldRelease(tr)
	r := tr.open()

	tag, ok, err := r.LatestTag(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1.0.0", tag)

	assert.ElementsMatch(t,
		[]string{"Merge branch 'side'", "side", "four"},
		subjects(t, r, tag))
}
