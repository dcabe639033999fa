package release

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Bump keywords accepted by BumpVersion.
const (
	BumpMajor = "major"
	BumpMinor = "minor"
	BumpPatch = "patch"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsExplicitVersion reports whether s is a plain x.y.z version.
func IsExplicitVersion(s string) bool {
	return versionPattern.MatchString(s)
}

// IsBumpKeyword reports whether s is major, minor or patch.
func IsBumpKeyword(s string) bool {
	switch s {
	case BumpMajor, BumpMinor, BumpPatch:
		return true
	}
	return false
}

// BumpVersion returns the version that follows current for the given bump.
// An explicit x.y.z bump is returned unchanged, whatever current is.
func BumpVersion(current, bump string) (string, error) {
	if IsExplicitVersion(bump) {
		return bump, nil
	}

	if !versionPattern.MatchString(current) {
		return "", fmt.Errorf("invalid version format: %q", current)
	}
	v, err := semver.StrictNewVersion(current)
	if err != nil {
		return "", fmt.Errorf("invalid version format: %q: %w", current, err)
	}

	var next semver.Version
	switch bump {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	case BumpPatch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("invalid bump type: %q (want major, minor, patch or x.y.z)", bump)
	}
	return next.String(), nil
}
