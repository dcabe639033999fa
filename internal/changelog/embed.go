package changelog

import (
	_ "embed"
)

//go:embed header.md
var defaultHeader string

// DefaultHeader returns the preamble used when CHANGELOG.md does not exist yet:
// title, description and the Keep a Changelog / Semantic Versioning notice.
func DefaultHeader() string {
	return defaultHeader
}
