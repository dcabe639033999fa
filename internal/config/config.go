// Package config provides layered configuration for plugrel using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.plugrel/config.yml or .plugrel/config.json) > user config
// (~/.config/plugrel/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PLUGREL_"

// Configuration represents the plugrel CLI configuration
type Configuration struct {
	// ChangelogPath is the changelog file, relative to the repository root.
	ChangelogPath string `koanf:"changelog_path" yaml:"changelog_path" validate:"required"`
	// ManifestPath is the plugin manifest holding the version field.
	ManifestPath string `koanf:"manifest_path" yaml:"manifest_path" validate:"required"`
	// TestCommand runs before every release. Split with shell quoting rules.
	TestCommand string `koanf:"test_command" yaml:"test_command" validate:"required"`
	Remote      string `koanf:"remote" yaml:"remote" validate:"required"`
	// BranchPrefix is joined with the new version to name the release branch.
	BranchPrefix string `koanf:"branch_prefix" yaml:"branch_prefix" validate:"required"`
	// DefaultRepoURL is used for changelog links when the remote cannot be read.
	DefaultRepoURL string `koanf:"default_repo_url" yaml:"default_repo_url" validate:"omitempty,url"`
	// SkipConfirmations skips the release prompt (can also be set via PLUGREL_YES).
	SkipConfirmations bool `koanf:"skip_confirmations" yaml:"skip_confirmations"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the directory holding .plugrel/ (default: current directory)
	ProjectDir string
	// ConfigPath overrides the project config file. Its extension selects the parser.
	ConfigPath string
	// SkipUserConfig ignores the user-level config file
	SkipUserConfig bool
}

// Load loads configuration for the project rooted at projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/plugrel/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the explicit config path, else the project YAML,
// else the project JSON. An explicit path that does not exist is an error.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions) error {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return fmt.Errorf("config file %s does not exist", opts.ConfigPath)
		}
		if err := loadFile(k, opts.ConfigPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		return nil
	}

	for _, path := range []string{
		ProjectConfigPath(opts.ProjectDir),
		ProjectJSONConfigPath(opts.ProjectDir),
	} {
		if !fileExists(path) {
			continue
		}
		if err := loadFile(k, path, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		return nil
	}
	return nil
}

// loadFile picks the parser from the file extension.
func loadFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ChangelogPath = expandHomePath(cfg.ChangelogPath)
	cfg.ManifestPath = expandHomePath(cfg.ManifestPath)

	if v := os.Getenv(EnvPrefix + "YES"); v != "" {
		yes, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %sYES value %q: want true or false", EnvPrefix, v)
		}
		cfg.SkipConfirmations = yes
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: PLUGREL_TEST_COMMAND -> test_command
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Resolve joins a configured path onto root unless it is already absolute.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
