package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	Added:      {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:    {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated: {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:    {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatPreview writes the dry-run report for a changelog update: the
// section that would be inserted and its link reference.
func FormatPreview(w io.Writer, path, versionSection, linkReference string, opts FormatOptions) error {
	if _, err := fmt.Fprintf(w, "  Would update %s\n", path); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  --- New version section ---"); err != nil {
		return err
	}

	width := resolveWidth(opts.MaxWidth)
	for _, line := range strings.Split(versionSection, "\n") {
		if _, err := fmt.Fprintln(w, styleSectionLine(line, opts, width)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "  --- Link reference ---"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  %s\n", linkReference)
	return err
}

// FormatUpdated writes the confirmation line after the file was written.
func FormatUpdated(w io.Writer, path string, opts FormatOptions) {
	if opts.Plain {
		fmt.Fprintf(w, "  Updated %s\n", path)
		return
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(w, "  %s Updated %s\n", green("✓"), path)
}

// FormatSummary writes one line per non-empty category with its entry count.
func FormatSummary(w io.Writer, entries Entries, opts FormatOptions) {
	for _, cat := range entries.Ordered() {
		n := len(entries[cat])
		if opts.Plain {
			fmt.Fprintf(w, "  [%s] %d\n", cat, n)
			continue
		}
		style := categoryStyles[cat]
		colored := style.Color.SprintFunc()
		fmt.Fprintf(w, "  %s %s (%d)\n", colored(style.Icon), colored(string(cat)), n)
	}
}

// styleSectionLine colors category headings and wraps long bullets.
func styleSectionLine(line string, opts FormatOptions, width int) string {
	if opts.Plain {
		return line
	}

	if name, ok := strings.CutPrefix(line, "### "); ok {
		if style, known := categoryStyles[Category(name)]; known {
			colored := style.Color.SprintFunc()
			return colored("### " + name)
		}
	}

	if strings.HasPrefix(line, "## ") {
		return color.New(color.Bold).Sprint(line)
	}

	if strings.HasPrefix(line, "- ") {
		return wrapText(line, width, "  ")
	}

	return line
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth runes, using indent for
// continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	remaining := []rune(text)
	if maxWidth <= 0 || len(remaining) <= maxWidth {
		return text
	}

	var lines []string
	for len(remaining) > maxWidth {
		// Break at the last space within maxWidth, or hard at maxWidth.
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, string(remaining[:breakPoint]))
		remaining = []rune(strings.TrimLeft(string(remaining[breakPoint:]), " "))
	}

	if len(remaining) > 0 {
		lines = append(lines, string(remaining))
	}

	return strings.Join(lines, "\n"+indent)
}
