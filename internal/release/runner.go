package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// DefaultTestCommand runs the project's test suite.
const DefaultTestCommand = "make test"

// ErrTestsFailed is returned when the test command exits non-zero.
var ErrTestsFailed = errors.New("tests failed")

// CommandFunc builds the process for a command. It matches exec.CommandContext.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// TestRunner runs the test suite before a release.
type TestRunner struct {
	argv    []string
	dir     string
	stdout  io.Writer
	stderr  io.Writer
	command CommandFunc
}

// NewTestRunner parses commandLine with shell quoting rules and returns a
// runner that executes it in dir, streaming output to stdout and stderr.
// Environment references such as $GOFLAGS are expanded.
func NewTestRunner(commandLine, dir string, stdout, stderr io.Writer) (*TestRunner, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true
	argv, err := parser.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parsing test command %q: %w", commandLine, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("test command %q is empty", commandLine)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &TestRunner{
		argv:    argv,
		dir:     dir,
		stdout:  stdout,
		stderr:  stderr,
		command: exec.CommandContext,
	}, nil
}

// WithCommandFunc replaces how the test process is created.
func (r *TestRunner) WithCommandFunc(fn CommandFunc) *TestRunner {
	r.command = fn
	return r
}

// Args returns the parsed command line.
func (r *TestRunner) Args() []string {
	return append([]string(nil), r.argv...)
}

// String returns the command line as it will be run.
func (r *TestRunner) String() string {
	return strings.Join(r.argv, " ")
}

// Run executes the test command. A non-zero exit yields ErrTestsFailed;
// failing to start the command is returned as is.
func (r *TestRunner) Run(ctx context.Context) error {
	cmd := r.command(ctx, r.argv[0], r.argv[1:]...)
	cmd.Dir = r.dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with status %d", ErrTestsFailed, r, exitErr.ExitCode())
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", r, err)
	}
	return nil
}
