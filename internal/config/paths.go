package config

import (
	"os"
	"path/filepath"
)

// ProjectDirName is the per-repository config directory.
const ProjectDirName = ".plugrel"

// UserConfigPath returns the path to the user-level config file.
// This follows os.UserConfigDir:
// - Linux: ~/.config/plugrel/config.yml (XDG_CONFIG_HOME respected)
// - macOS: ~/Library/Application Support/plugrel/config.yml
// - Windows: %APPDATA%\plugrel\config.yml
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "plugrel"), nil
}

// ProjectConfigPath returns .plugrel/config.yml under projectDir.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectDirName, "config.yml")
}

// ProjectJSONConfigPath returns .plugrel/config.json under projectDir.
func ProjectJSONConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectDirName, "config.json")
}
