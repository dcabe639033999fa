package changelog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"github ssh":           {input: "git@github.com:acme/widget.git", want: "https://github.com/acme/widget"},
		"github ssh no .git":   {input: "git@github.com:acme/widget", want: "https://github.com/acme/widget"},
		"https with .git":      {input: "https://github.com/acme/widget.git", want: "https://github.com/acme/widget"},
		"https without .git":   {input: "https://github.com/acme/widget", want: "https://github.com/acme/widget"},
		"trailing newline":     {input: "https://github.com/acme/widget.git\n", want: "https://github.com/acme/widget"},
		"other host untouched": {input: "git@gitlab.com:acme/widget.git", want: "git@gitlab.com:acme/widget"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WebURL(tt.input))
		})
	}
}

func TestResolveRepoURL(t *testing.T) {
	t.Parallel()

	const fallback = "https://github.com/acme/default"
	ctx := context.Background()

	assert.Equal(t, "https://github.com/acme/widget",
		ResolveRepoURL(ctx, &fakeRepo{remoteURL: "git@github.com:acme/widget.git"}, "origin", fallback))
	assert.Equal(t, fallback,
		ResolveRepoURL(ctx, &fakeRepo{remoteErr: errors.New("missing")}, "origin", fallback))
	assert.Equal(t, fallback,
		ResolveRepoURL(ctx, &fakeRepo{remoteURL: "  "}, "origin", fallback))
	assert.Equal(t, fallback, ResolveRepoURL(ctx, nil, "origin", fallback))
}
