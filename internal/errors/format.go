package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the styling for each part of a formatted error.
type palette struct {
	label, message, category, fix, usage, bullet func(a ...interface{}) string
}

var (
	colored = palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
	plain = palette{
		label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint,
		fix: fmt.Sprint, usage: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for the terminal. fatih/color drops the
// escape codes itself when stdout is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", p.usage("Usage:"), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted error to w. Errors that are not CLIErrors
// are shown as Runtime errors.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error()}
	}
	fmt.Fprint(w, FormatError(cliErr))
}
