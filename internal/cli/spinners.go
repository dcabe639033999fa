package cli

import (
	"context"
	"io"

	"github.com/ariel-frischer/plugrel/internal/changelog"
	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/progress"
	"github.com/ariel-frischer/plugrel/internal/release"
)

// spinnerHistory shows a spinner while the commit history is read.
type spinnerHistory struct {
	changelog.Repository
	out  io.Writer
	caps progress.TerminalCapabilities
}

func (h spinnerHistory) CommitsSince(ctx context.Context, tag string) ([]changelog.Commit, error) {
	var commits []changelog.Commit
	err := progress.NewSpinner(h.out, h.caps, "Reading commit history").Run(func() error {
		var err error
		commits, err = h.Repository.CommitsSince(ctx, tag)
		return err
	})
	return commits, err
}

// spinnerVCS shows a spinner while the release branch is pushed and turns
// push failures into errors with remediation.
type spinnerVCS struct {
	release.VCS
	out  io.Writer
	caps progress.TerminalCapabilities
}

func (v spinnerVCS) Push(ctx context.Context, remote, branch string) error {
	err := progress.NewSpinner(v.out, v.caps, "Pushing "+branch+" to "+remote).Run(func() error {
		return v.VCS.Push(ctx, remote, branch)
	})
	if err != nil {
		return clierrors.PushFailed(remote, branch, err)
	}
	return nil
}
