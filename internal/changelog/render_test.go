package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var releaseDay = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestFormatVersionSection(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version  string
		entries  Entries
		expected string
	}{
		"categories follow priority order": {
			version: "1.0.0",
			entries: Entries{
				Fixed: {{Category: Fixed, Message: "Msg B"}},
				Added: {{Category: Added, Message: "Msg A"}},
			},
			expected: "## [1.0.0] - 2024-01-15\n" +
				"\n" +
				"### Added\n" +
				"- Msg A\n" +
				"\n" +
				"### Fixed\n" +
				"- Msg B\n",
		},
		"pull request numbers are appended": {
			version: "2.1.0",
			entries: Entries{
				Changed: {
					{Category: Changed, Message: "Rework cache", PRNumber: "42"},
					{Category: Changed, Message: "Tune defaults"},
				},
			},
			expected: "## [2.1.0] - 2024-01-15\n" +
				"\n" +
				"### Changed\n" +
				"- Rework cache (#42)\n" +
				"- Tune defaults\n",
		},
		"all six categories": {
			version: "3.0.0",
			entries: Entries{
				Security:   {{Category: Security, Message: "S"}},
				Fixed:      {{Category: Fixed, Message: "F"}},
				Removed:    {{Category: Removed, Message: "R"}},
				Deprecated: {{Category: Deprecated, Message: "D"}},
				Changed:    {{Category: Changed, Message: "C"}},
				Added:      {{Category: Added, Message: "A"}},
			},
			expected: "## [3.0.0] - 2024-01-15\n\n" +
				"### Added\n- A\n\n" +
				"### Changed\n- C\n\n" +
				"### Deprecated\n- D\n\n" +
				"### Removed\n- R\n\n" +
				"### Fixed\n- F\n\n" +
				"### Security\n- S\n",
		},
		"empty categories are skipped": {
			version: "1.0.1",
			entries: Entries{
				Added: {},
				Fixed: {{Category: Fixed, Message: "Only fix"}},
			},
			expected: "## [1.0.1] - 2024-01-15\n\n### Fixed\n- Only fix\n",
		},
		"no entries": {
			version:  "0.0.1",
			entries:  Entries{},
			expected: "## [0.0.1] - 2024-01-15\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := FormatVersionSection(tt.version, tt.entries, releaseDay)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatVersionSection_DefaultsToToday(t *testing.T) {
	t.Parallel()

	got := FormatVersionSection("1.0.0", Entries{}, time.Time{})
	today := time.Now().Format("2006-01-02")
	// Tolerate a date rollover between the two calls.
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	assert.True(t,
		strings.Contains(got, today) || strings.Contains(got, yesterday),
		"header %q should carry the current date", got)
}

func TestFormatVersionSection_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, version := range []string{"0.1.0", "1.2.3", "10.20.30"} {
		section := FormatVersionSection(version, Entries{
			Added: {{Category: Added, Message: "Thing"}},
		}, releaseDay)

		got, ok := ParseDocument(section).FirstVersion()
		require.True(t, ok)
		assert.Equal(t, version, got)
	}
}

func TestFormatLinkReference(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version     string
		repoURL     string
		prevVersion string
		expected    string
	}{
		"compare with previous version": {
			version:     "2.0.0",
			repoURL:     "https://github.com/o/r",
			prevVersion: "1.9.0",
			expected:    "[2.0.0]: https://github.com/o/r/compare/1.9.0...v2.0.0",
		},
		"compare with previous tag": {
			version:     "2.0.0",
			repoURL:     "https://github.com/o/r",
			prevVersion: "v1.9.0",
			expected:    "[2.0.0]: https://github.com/o/r/compare/v1.9.0...v2.0.0",
		},
		"first release links to tag": {
			version:  "0.1.0",
			repoURL:  "https://github.com/o/r",
			expected: "[0.1.0]: https://github.com/o/r/releases/tag/v0.1.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatLinkReference(tt.version, tt.repoURL, tt.prevVersion))
		})
	}
}
