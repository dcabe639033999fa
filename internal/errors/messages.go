package errors

import "fmt"

// Common error messages for the plugrel CLI.

// NotGitRepository creates an error for a path outside any git repository.
func NotGitRepository(path string, cause error) *CLIError {
	err := NewPrerequisiteError(
		fmt.Sprintf("%s is not inside a git repository", path),
		"Run plugrel from inside the plugin repository",
		"Or point at it with --repo <path>",
	)
	err.cause = cause
	return err
}

// ManifestNotReadable creates an error for a missing or malformed plugin manifest.
func ManifestNotReadable(path string, cause error) *CLIError {
	err := NewPrerequisiteError(
		fmt.Sprintf("cannot read version from %s: %v", path, cause),
		"Check that the manifest exists and has a \"version\": \"x.y.z\" field",
		"Or set manifest_path in .plugrel/config.yml",
	)
	err.cause = cause
	return err
}

// InvalidBump creates an error for a release argument that is neither a
// bump keyword nor an explicit version.
func InvalidBump(arg string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid release argument: %s", arg),
		"plugrel release [patch|minor|major|x.y.z]",
		"Use one of patch, minor or major",
		"Or give an explicit version such as 1.4.0",
	)
}

// InvalidVersion creates an error for a malformed version argument.
func InvalidVersion(arg string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %s", arg),
		"plugrel changelog <x.y.z>",
		"Pass the version without the v prefix, e.g. 1.2.0",
	)
}

// InvalidDate creates an error for a --date value that is not YYYY-MM-DD.
func InvalidDate(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid date %q", value),
		"Use the YYYY-MM-DD format, e.g. --date 2024-01-15",
	)
}

// ConfigParseError creates an error for a config file that fails to load.
func ConfigParseError(cause error) *CLIError {
	err := NewConfigError(
		fmt.Sprintf("failed to load configuration: %v", cause),
		"Fix the reported key in .plugrel/config.yml or ~/.config/plugrel/config.yml",
		"Run 'plugrel config show' to see the resolved values",
	)
	err.cause = cause
	return err
}

// TestsFailed creates an error for a failing pre-release test run.
func TestsFailed(command string, cause error) *CLIError {
	err := NewRuntimeError(
		fmt.Sprintf("tests failed: %v", cause),
		fmt.Sprintf("Fix the failures reported by '%s' and retry", command),
		"Or change test_command in .plugrel/config.yml",
	)
	err.cause = cause
	return err
}

// PushFailed creates an error for a release branch that could not be pushed.
func PushFailed(remote, branch string, cause error) *CLIError {
	err := NewRuntimeError(
		fmt.Sprintf("pushing %s to %s: %v", branch, remote, cause),
		"Check credentials: SSH_AUTH_SOCK for SSH remotes, GITHUB_TOKEN or GIT_USERNAME/GIT_PASSWORD for HTTPS",
		fmt.Sprintf("The branch exists locally; push it with: git push -u %s %s", remote, branch),
	)
	err.cause = cause
	return err
}

// NoRepoURL creates an error for a changelog whose link reference has no
// repository URL to point at.
func NoRepoURL(remote string, cause error) *CLIError {
	err := NewPrerequisiteError(
		fmt.Sprintf("cannot determine the repository URL: remote %q is unavailable and default_repo_url is not set", remote),
		"Pass it explicitly: plugrel changelog <version> --repo-url https://github.com/<owner>/<repo>",
		"Or set default_repo_url in .plugrel/config.yml (PLUGREL_DEFAULT_REPO_URL)",
		fmt.Sprintf("Or add the remote: git remote add %s <url>", remote),
	)
	err.cause = cause
	return err
}
