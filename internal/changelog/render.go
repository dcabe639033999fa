package changelog

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the ISO 8601 calendar date used in version headers.
const dateLayout = "2006-01-02"

// FormatVersionSection renders a Keep a Changelog version section.
// Categories are written in the fixed Keep a Changelog order regardless of
// how entries were grouped. A zero releaseDate means today.
//
// The function is idempotent - given the same input, it produces identical output.
func FormatVersionSection(version string, entries Entries, releaseDate time.Time) string {
	if releaseDate.IsZero() {
		releaseDate = time.Now()
	}

	lines := []string{formatVersionHeader(version, releaseDate), ""}

	for _, cat := range entries.Ordered() {
		lines = append(lines, "### "+string(cat))
		for _, e := range entries[cat] {
			lines = append(lines, formatBullet(e))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// formatVersionHeader formats the version header line.
func formatVersionHeader(version string, date time.Time) string {
	return fmt.Sprintf("## [%s] - %s", version, date.Format(dateLayout))
}

// formatBullet renders one entry, with its pull request reference if known.
func formatBullet(e Entry) string {
	if e.PRNumber != "" {
		return fmt.Sprintf("- %s (#%s)", e.Message, e.PRNumber)
	}
	return "- " + e.Message
}

// FormatLinkReference renders the markdown link reference for a version.
// With a previous version (a tag such as "v1.9.0") the link compares the two
// releases; otherwise it points at the release tag page.
func FormatLinkReference(version, repoURL, prevVersion string) string {
	if prevVersion != "" {
		return fmt.Sprintf("[%s]: %s/compare/%s...v%s", version, repoURL, prevVersion, version)
	}
	return fmt.Sprintf("[%s]: %s/releases/tag/v%s", version, repoURL, version)
}
