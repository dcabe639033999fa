package changelog

import (
	"regexp"
	"strings"
)

var (
	versionHeaderPattern = regexp.MustCompile(`^## \[(\d+\.\d+\.\d+)\]`)
	linkPattern          = regexp.MustCompile(`^\[(\d+\.\d+\.\d+)\]:`)
)

// FirstVersion returns the version of the first "## [x.y.z]" header.
func (d Document) FirstVersion() (string, bool) {
	for _, line := range d.lines {
		if m := versionHeaderPattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// SectionInsertIndex returns where a new version section goes: the first
// version header, or the first non-empty line that is not a heading and does
// not mention "format", whichever comes first. When neither exists the
// section goes after the header block with trailing blank lines trimmed.
func (d Document) SectionInsertIndex() int {
	for i, line := range d.lines {
		if versionHeaderPattern.MatchString(line) {
			return i
		}
		if strings.TrimSpace(line) != "" &&
			!strings.HasPrefix(line, "#") &&
			!strings.Contains(strings.ToLower(line), "format") {
			return i
		}
	}

	idx := len(d.lines)
	for idx > 0 && strings.TrimSpace(d.lines[idx-1]) == "" {
		idx--
	}
	return idx
}

// LinkInsertIndex returns the index of the first link reference line, or
// the end of the document when there is none.
func (d Document) LinkInsertIndex() int {
	for i, line := range d.lines {
		if linkPattern.MatchString(strings.TrimSpace(line)) {
			return i
		}
	}
	return len(d.lines)
}
