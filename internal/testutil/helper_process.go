// Package testutil provides test helpers shared by plugrel's packages.
//
// The helper process pattern replaces a real subprocess (a test command,
// for example) with the test binary itself:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
//
//	runner.WithCommandFunc(testutil.HelperCommandFunc(t, "TestHelperProcess",
//	    testutil.HelperProcessConfig{ExitCode: 2}))
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// EchoArgs writes the intercepted command line to stdout, one argument
	// per line, after Stdout.
	EchoArgs bool `json:"echo_args"`
	// EchoDir writes the working directory to stdout as "dir=<path>".
	EchoDir bool `json:"echo_dir"`
}

// Environment variables read by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
	// EnvHelperProcessArgs contains the intercepted command line (JSON array).
	EnvHelperProcessArgs = "GO_HELPER_PROCESS_ARGS"
)

// TestHelperProcess turns the running test binary into the fake subprocess
// when GO_WANT_HELPER_PROCESS=1, and exits. Otherwise it returns immediately.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if raw := os.Getenv(EnvHelperProcessConfig); raw != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(raw), &config)
	}
	runHelperProcess(config)
}

// runHelperProcess writes the configured output and always exits.
func runHelperProcess(config HelperProcessConfig) {
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.EchoArgs {
		args, _ := GetHelperProcessArgs()
		for _, a := range args {
			fmt.Fprintln(os.Stdout, a)
		}
	}
	if config.EchoDir {
		dir, _ := os.Getwd()
		fmt.Fprintf(os.Stdout, "dir=%s\n", dir)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// ConfigureTestCommand returns a command that runs the test binary as a
// helper process in place of the command line args.
// testName must name a test that calls TestHelperProcess.
func ConfigureTestCommand(ctx context.Context, t *testing.T, testName string, config HelperProcessConfig, args ...string) *exec.Cmd {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	cmd := exec.CommandContext(ctx, testBinary, "-test.run=^"+testName+"$")
	cmd.Env = buildHelperEnv(config, args)
	return cmd
}

// HelperCommandFunc returns a drop-in replacement for exec.CommandContext
// that intercepts every command with the helper process.
func HelperCommandFunc(t *testing.T, testName string, config HelperProcessConfig) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return ConfigureTestCommand(ctx, t, testName, config, append([]string{name}, args...)...)
	}
}

func buildHelperEnv(config HelperProcessConfig, args []string) []string {
	env := append(os.Environ(), EnvWantHelperProcess+"=1")

	if configJSON, err := json.Marshal(config); err == nil {
		env = append(env, EnvHelperProcessConfig+"="+string(configJSON))
	}
	if argsJSON, err := json.Marshal(args); err == nil {
		env = append(env, EnvHelperProcessArgs+"="+string(argsJSON))
	}
	return env
}

// GetHelperProcessArgs returns the command line intercepted by the helper process.
func GetHelperProcessArgs() ([]string, error) {
	argsJSON := os.Getenv(EnvHelperProcessArgs)
	if argsJSON == "" {
		return nil, nil
	}

	var args []string
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, fmt.Errorf("parsing helper process args: %w", err)
	}
	return args, nil
}

// HelperProcessResult captures the result of running a helper process command.
type HelperProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// RunHelperCommand runs cmd and captures its output and exit code.
func RunHelperCommand(t *testing.T, cmd *exec.Cmd) *HelperProcessResult {
	t.Helper()

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &HelperProcessResult{Err: cmd.Run()}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result
}
