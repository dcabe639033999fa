package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# plugrel configuration
# Values here are overridden by PLUGREL_* environment variables.

# Changelog settings
changelog_path: CHANGELOG.md          # Keep a Changelog file, relative to the repo root
default_repo_url: ""                  # Link base when the remote URL cannot be read

# Release settings
manifest_path: .claude-plugin/plugin.json  # JSON file holding the "version" field
test_command: make test               # Must pass before a release is cut
remote: origin                        # Remote pushed to in CI mode
branch_prefix: release/v              # Release branch is <prefix><version>
skip_confirmations: false             # Skip the release prompt (PLUGREL_YES=1)
`
}

// GetDefaults returns the default configuration values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_path":     "CHANGELOG.md",
		"manifest_path":      ".claude-plugin/plugin.json",
		"test_command":       "make test",
		"remote":             "origin",
		"branch_prefix":      "release/v",
		"default_repo_url":   "",
		"skip_confirmations": false,
	}
}

// WriteDefaultConfig writes the commented template to the project config
// path. It refuses to overwrite an existing file unless force is set.
func WriteDefaultConfig(projectDir string, force bool) (string, error) {
	path := ProjectConfigPath(projectDir)
	if fileExists(path) && !force {
		return path, fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GetDefaultConfigTemplate()), 0o644); err != nil {
		return path, fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}
