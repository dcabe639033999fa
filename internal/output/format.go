// Package output provides terminal output formatting for the plugrel CLI.
// It has minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeader prints a bold command header with a rule underneath,
// e.g. "Changelog v1.2.0".
func PrintHeader(out io.Writer, title string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	width := len(title)
	if limit := GetTerminalWidth(); width > limit {
		width = limit
	}
	fmt.Fprintf(out, "%s\n%s\n", cyan(title), dim(strings.Repeat("─", width)))
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), message)
}

// PrintNotice prints an informational line for a step that had nothing to do.
func PrintNotice(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "  %s\n", yellow(message))
}
