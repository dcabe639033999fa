package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
	"github.com/ariel-frischer/plugrel/internal/release"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "plugrel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "Keep a Changelog")
	assert.Contains(t, rootCmd.Example, "plugrel release")
	assert.Contains(t, rootCmd.Example, "plugrel changelog")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "repo", "debug"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag %s should exist", name)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	tests := map[string]struct {
		name  string
		group string
	}{
		"changelog": {name: "changelog", group: GroupRelease},
		"release":   {name: "release", group: GroupRelease},
		"config":    {name: "config", group: GroupConfiguration},
		"version":   {name: "version", group: GroupInfo},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.name, cmd.Name())
			assert.Equal(t, tt.group, cmd.GroupID)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":              {err: nil, want: ExitSuccess},
		"exit error":       {err: NewExitError(ExitFailure), want: ExitFailure},
		"wrapped exit":     {err: fmt.Errorf("x: %w", NewExitError(7)), want: 7},
		"argument error":   {err: clierrors.InvalidBump("huge"), want: ExitInvalidArguments},
		"config error":     {err: clierrors.ConfigParseError(errors.New("bad")), want: ExitFailure},
		"plain error":      {err: errors.New("boom"), want: ExitFailure},
		"tests failed":     {err: release.ErrTestsFailed, want: ExitFailure},
		"wrapped argument": {err: fmt.Errorf("ctx: %w", clierrors.InvalidVersion("1")), want: ExitInvalidArguments},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExecute_ArgumentErrors(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantStderr string
	}{
		"unknown bump": {
			args:       []string{"release", "huge"},
			wantStderr: "invalid release argument: huge",
		},
		"too many release arguments": {
			args:       []string{"release", "patch", "minor"},
			wantStderr: "expected at most 1 argument",
		},
		"partial version": {
			args:       []string{"changelog", "1.2"},
			wantStderr: "invalid version: 1.2",
		},
		"missing version": {
			args:       []string{"changelog"},
			wantStderr: "expected 1 version argument, got 0",
		},
		"bad date": {
			args:       []string{"changelog", "1.2.0", "--date", "15/01/2024"},
			wantStderr: "invalid date",
		},
		"unknown flag": {
			args:       []string{"release", "--bogus"},
			wantStderr: "unknown flag: --bogus",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			_, stderr, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
			assert.Contains(t, stderr, "Argument Error")
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestExecute_NotRepository(t *testing.T) {
	isolateEnv(t)

	_, stderr, err := runCLI(t, "", "release", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, stderr, "Prerequisite Error")
	assert.Contains(t, stderr, "is not inside a git repository")
}

func TestExecute_DebugOutput(t *testing.T) {
	pr := newPluginRepo(t)

	_, stderr, err := runCLI(t, "", "release", "--dry-run", "--debug", "--repo", pr.dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "[git] opening repository at "+pr.dir)
}
