package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/plugrel/internal/errors"
)

// Exit codes for the plugrel CLI
const (
	// ExitSuccess covers success, a declined release and nothing-to-do skips
	ExitSuccess = 0

	// ExitFailure indicates a failed test run or any fatal error
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
)

// ExitError carries an exit code for a failure that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an ExitError for code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailure
}
