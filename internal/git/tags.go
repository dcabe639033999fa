package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// releaseTagPattern matches tags that mark a release, e.g. v1.2.3.
var releaseTagPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+`)

// LatestTag returns the release tag with the fewest commits between it and
// HEAD, the way git describe picks its tag. Ties go to the highest version.
// Only tags reachable from HEAD count, so a tag on a merged-in branch never
// beats a newer release on the main line. The boolean is false when HEAD has
// no tagged ancestor, or when the repository has no commits yet.
func (r *Repo) LatestTag(ctx context.Context) (string, bool, error) {
	tagged, err := r.releaseTagsByCommit()
	if err != nil {
		return "", false, err
	}
	if len(tagged) == 0 {
		logDebug("[git] LatestTag: no release tags")
		return "", false, nil
	}

	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting HEAD: %w", err)
	}

	var candidates []plumbing.Hash
	if _, err := r.countAncestors(ctx, head.Hash(), func(h plumbing.Hash) {
		if _, ok := tagged[h]; ok {
			candidates = append(candidates, h)
		}
	}); err != nil {
		return "", false, err
	}
	if len(candidates) == 0 {
		logDebug("[git] LatestTag: no release tag reachable from HEAD")
		return "", false, nil
	}

	// Every candidate is an ancestor of HEAD, so the commits in tag..HEAD
	// number |ancestors(HEAD)| - |ancestors(tag)|. The nearest tag is the
	// one with the most ancestors.
	best := -1
	var names []string
	for _, hash := range candidates {
		n, err := r.countAncestors(ctx, hash, nil)
		if err != nil {
			return "", false, err
		}
		switch {
		case n > best:
			best = n
			names = append([]string(nil), tagged[hash]...)
		case n == best:
			names = append(names, tagged[hash]...)
		}
	}

	found := highestVersion(names)
	logDebug("[git] LatestTag: %q (%d candidates)", found, len(candidates))
	return found, true, nil
}

// countAncestors returns the number of commits reachable from hash,
// including hash itself. visit, when set, sees each commit once.
func (r *Repo) countAncestors(ctx context.Context, hash plumbing.Hash, visit func(plumbing.Hash)) (int, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return 0, fmt.Errorf("walking history from %s: %w", hash, err)
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		if visit != nil {
			visit(c.Hash)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking history from %s: %w", hash, err)
	}
	return count, nil
}

// releaseTagsByCommit maps commit hashes to the release tags pointing at them.
// Annotated tags are peeled to their target commit.
func (r *Repo) releaseTagsByCommit() (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !releaseTagPattern.MatchString(name) {
			return nil
		}

		target := ref.Hash()
		tag, err := r.repo.TagObject(target)
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				// Tags of trees or blobs do not mark a release.
				logDebug("[git] ignoring tag %s: %v", name, err)
				return nil
			}
			target = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("reading tag %s: %w", name, err)
		}

		tagged[target] = append(tagged[target], name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tagged, nil
}

// highestVersion picks the greatest semantic version among tag names.
func highestVersion(names []string) string {
	best := names[0]
	bestVersion, _ := semver.NewVersion(best)
	for _, name := range names[1:] {
		v, err := semver.NewVersion(name)
		if err != nil {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = name, v
		}
	}
	return best
}
