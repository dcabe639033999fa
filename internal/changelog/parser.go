package changelog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	conventionalPattern = regexp.MustCompile(
		`(?i)^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)` +
			`(?:\(([^)]+)\))?` +
			`(!)?` +
			`:\s*(.+)$`,
	)

	prPattern = regexp.MustCompile(`\(#(\d+)\)$`)
)

// typeCategories maps conventional commit types to changelog categories.
// Types that are neither listed here nor excluded fall back to Changed.
var typeCategories = map[string]Category{
	"feat":     Added,
	"fix":      Fixed,
	"docs":     Changed,
	"style":    Changed,
	"refactor": Changed,
	"perf":     Changed,
	"revert":   Changed,
}

// excludedTypes never produce changelog entries.
var excludedTypes = map[string]bool{
	"test":  true,
	"build": true,
	"ci":    true,
	"chore": true,
}

// keywordHint is a fallback rule for commits that are not conventional.
type keywordHint struct {
	category Category
	keywords []string
}

// keywordHints are tried in order; the first match wins.
// Deprecated deliberately has no keywords.
var keywordHints = []keywordHint{
	{Added, []string{"add", "new", "create", "implement", "introduce", "initial"}},
	{Fixed, []string{"fix", "resolve", "correct", "repair", "patch", "bug"}},
	{Changed, []string{
		"update", "modify", "change", "improve", "enhance",
		"rename", "refactor", "upgrade", "bump", "expand",
	}},
	{Removed, []string{"remove", "delete", "drop", "deprecate"}},
	{Security, []string{"security", "vulnerability", "cve"}},
}

// Parser turns commit messages into changelog entries.
// It is stateless and safe to reuse.
type Parser struct{}

// NewParser returns a commit parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse classifies a commit. It returns false when the commit should not
// appear in the changelog (release commits and excluded conventional types).
func (p *Parser) Parse(c Commit) (Entry, bool) {
	subject := strings.TrimSpace(c.Subject)

	if strings.HasPrefix(strings.ToLower(subject), "release v") {
		return Entry{}, false
	}

	prNumber := c.PRNumber
	if m := prPattern.FindStringSubmatch(subject); m != nil {
		prNumber = m[1]
	}
	clean := strings.TrimSpace(prPattern.ReplaceAllString(subject, ""))

	if m := conventionalPattern.FindStringSubmatch(clean); m != nil {
		return parseConventional(m, c.Body, prNumber)
	}

	return categorizeByKeywords(clean, prNumber), true
}

// parseConventional builds an entry from a conventional commit match.
// Submatches: 1 type, 2 scope, 3 breaking marker, 4 description.
func parseConventional(m []string, body, prNumber string) (Entry, bool) {
	commitType := strings.ToLower(m[1])
	if excludedTypes[commitType] {
		return Entry{}, false
	}

	category, ok := typeCategories[commitType]
	if !ok {
		category = Changed
	}

	description := m[4]
	if m[3] == "!" || strings.Contains(strings.ToUpper(body), "BREAKING") {
		description = "**BREAKING:** " + description
	}

	return Entry{
		Category: category,
		Message:  formatMessage(description),
		PRNumber: prNumber,
	}, true
}

// categorizeByKeywords assigns a category from leading or whole-word keywords.
func categorizeByKeywords(subject, prNumber string) Entry {
	lower := strings.ToLower(subject)
	padded := " " + lower + " "

	category := Changed
	for _, hint := range keywordHints {
		if matchesAnyKeyword(lower, padded, hint.keywords) {
			category = hint.category
			break
		}
	}

	return Entry{
		Category: category,
		Message:  formatMessage(subject),
		PRNumber: prNumber,
	}
}

func matchesAnyKeyword(lower, padded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.HasPrefix(lower, kw) || strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}

// formatMessage upper-cases the first character and leaves the rest alone.
func formatMessage(msg string) string {
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
