package changelog

import (
	"strings"
)

// Document is a changelog held as an ordered sequence of lines.
// Insert returns a new Document; the receiver is never modified.
type Document struct {
	lines []string
}

// ParseDocument splits changelog text into lines.
func ParseDocument(content string) Document {
	return Document{lines: strings.Split(content, "\n")}
}

// String joins the lines back into changelog text.
func (d Document) String() string {
	return strings.Join(d.lines, "\n")
}

// Lines returns a copy of the document lines.
func (d Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of lines.
func (d Document) Len() int {
	return len(d.lines)
}

// Insert returns a document with lines spliced in before index idx.
// idx is clamped to the document bounds.
func (d Document) Insert(idx int, lines ...string) Document {
	if idx < 0 {
		idx = 0
	}
	if idx > len(d.lines) {
		idx = len(d.lines)
	}

	out := make([]string, 0, len(d.lines)+len(lines))
	out = append(out, d.lines[:idx]...)
	out = append(out, lines...)
	out = append(out, d.lines[idx:]...)
	return Document{lines: out}
}

// WithVersion returns the document with a version section and its link
// reference merged in. The section is stripped of surrounding blank lines
// and followed by exactly one blank line; the link goes above older links.
func (d Document) WithVersion(section, link string) Document {
	sectionLines := strings.Split(strings.TrimSpace(section), "\n")
	sectionLines = append(sectionLines, "")

	merged := d.Insert(d.SectionInsertIndex(), sectionLines...)
	return merged.Insert(merged.LinkInsertIndex(), link)
}
