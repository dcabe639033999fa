package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir and clears
// PLUGREL_ variables so the host environment cannot leak in.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"CHANGELOG_PATH", "MANIFEST_PATH", "TEST_COMMAND", "REMOTE",
		"BRANCH_PREFIX", "DEFAULT_REPO_URL", "SKIP_CONFIRMATIONS", "YES",
	} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
}

func writeProjectConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, ProjectDirName, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
	assert.Equal(t, ".claude-plugin/plugin.json", cfg.ManifestPath)
	assert.Equal(t, "make test", cfg.TestCommand)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "release/v", cfg.BranchPrefix)
	assert.Empty(t, cfg.DefaultRepoURL)
	assert.False(t, cfg.SkipConfirmations)
}

func TestLoad_Layers(t *testing.T) {
	tests := map[string]struct {
		userYAML    string
		projectYAML string
		projectJSON string
		env         map[string]string
		check       func(t *testing.T, cfg *Configuration)
	}{
		"user config overrides defaults": {
			userYAML: "remote: upstream\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "upstream", cfg.Remote)
				assert.Equal(t, "make test", cfg.TestCommand)
			},
		},
		"project config overrides user config": {
			userYAML:    "remote: upstream\ntest_command: go test ./...\n",
			projectYAML: "remote: fork\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "fork", cfg.Remote)
				assert.Equal(t, "go test ./...", cfg.TestCommand)
			},
		},
		"project json is read when no yaml exists": {
			projectJSON: `{"branch_prefix": "rel-", "manifest_path": "plugin.json"}`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "rel-", cfg.BranchPrefix)
				assert.Equal(t, "plugin.json", cfg.ManifestPath)
			},
		},
		"project yaml wins over project json": {
			projectYAML: "branch_prefix: yaml-\n",
			projectJSON: `{"branch_prefix": "json-"}`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "yaml-", cfg.BranchPrefix)
			},
		},
		"environment overrides files": {
			projectYAML: "test_command: make check\n",
			env:         map[string]string{"PLUGREL_TEST_COMMAND": "go test -race ./..."},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "go test -race ./...", cfg.TestCommand)
			},
		},
		"yes variable skips confirmations": {
			env: map[string]string{"PLUGREL_YES": "1"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.True(t, cfg.SkipConfirmations)
			},
		},
		"yes variable set to true": {
			env: map[string]string{"PLUGREL_YES": "true"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.True(t, cfg.SkipConfirmations)
			},
		},
		"yes variable set to false": {
			env: map[string]string{"PLUGREL_YES": "false"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.False(t, cfg.SkipConfirmations)
			},
		},
		"yes variable set to zero overrides project file": {
			projectYAML: "skip_confirmations: true\n",
			env:         map[string]string{"PLUGREL_YES": "0"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.False(t, cfg.SkipConfirmations)
			},
		},
		"empty project file keeps defaults": {
			projectYAML: "\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "origin", cfg.Remote)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			if tt.userYAML != "" {
				path, err := UserConfigPath()
				require.NoError(t, err)
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.userYAML), 0o644))
			}
			dir := t.TempDir()
			if tt.projectYAML != "" {
				writeProjectConfig(t, dir, "config.yml", tt.projectYAML)
			}
			if tt.projectJSON != "" {
				writeProjectConfig(t, dir, "config.json", tt.projectJSON)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(dir)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadWithOptions_ConfigPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("remote: custom\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir(), ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Remote)

	_, err = LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		projectYAML string
		env         map[string]string
		wantErr     string
	}{
		"invalid yes variable": {
			projectYAML: "remote: origin\n",
			env:         map[string]string{"PLUGREL_YES": "maybe"},
			wantErr:     "invalid PLUGREL_YES value",
		},
		"invalid yaml syntax": {
			projectYAML: "remote: [unclosed\n",
			wantErr:     "validating YAML syntax",
		},
		"empty required value": {
			projectYAML: "test_command: \"\"\n",
			wantErr:     "field 'test_command': is required",
		},
		"bad repo url": {
			projectYAML: "default_repo_url: not a url\n",
			wantErr:     "field 'default_repo_url': must be a URL",
		},
		"branch prefix with space": {
			projectYAML: "branch_prefix: \"release v\"\n",
			wantErr:     "branch_prefix",
		},
		"top level list": {
			projectYAML: "- a\n- b\n",
			wantErr:     "must be a mapping",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			writeProjectConfig(t, dir, "config.yml", tt.projectYAML)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"single word":    {input: "PLUGREL_REMOTE", want: "remote"},
		"multiple words": {input: "PLUGREL_DEFAULT_REPO_URL", want: "default_repo_url"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/repo", "CHANGELOG.md"), Resolve("/repo", "CHANGELOG.md"))
	assert.Equal(t, "/abs/CHANGELOG.md", Resolve("/repo", "/abs/CHANGELOG.md"))
	assert.Equal(t, "CHANGELOG.md", Resolve("", "CHANGELOG.md"))
}

func TestWriteDefaultConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	path, err := WriteDefaultConfig(dir, false)
	require.NoError(t, err)
	assert.Equal(t, ProjectConfigPath(dir), path)

	_, err = WriteDefaultConfig(dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = WriteDefaultConfig(dir, true)
	require.NoError(t, err)

	// The template must load back to the defaults.
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "release/v", cfg.BranchPrefix)
	assert.Equal(t, ".claude-plugin/plugin.json", cfg.ManifestPath)
}
