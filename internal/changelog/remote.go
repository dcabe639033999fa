package changelog

import (
	"context"
	"strings"
)

const githubSSHPrefix = "git@github.com:"

// RemoteResolver looks up the URL configured for a git remote.
type RemoteResolver interface {
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// WebURL converts a git remote URL into the repository's web URL.
// SSH-style GitHub remotes become HTTPS and a trailing ".git" is dropped.
func WebURL(remoteURL string) string {
	url := strings.TrimSpace(remoteURL)
	if strings.HasPrefix(url, githubSSHPrefix) {
		url = "https://github.com/" + strings.TrimPrefix(url, githubSSHPrefix)
	}
	return strings.TrimSuffix(url, ".git")
}

// ResolveRepoURL returns the web URL of the given remote. When the remote
// cannot be read the fallback URL is returned instead.
func ResolveRepoURL(ctx context.Context, r RemoteResolver, remote, fallback string) string {
	if r == nil {
		return fallback
	}
	url, err := r.RemoteURL(ctx, remote)
	if err != nil || strings.TrimSpace(url) == "" {
		logDebug("[changelog] remote %q unavailable (%v), using %s", remote, err, fallback)
		return fallback
	}
	return WebURL(url)
}
