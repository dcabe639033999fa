package changelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the changelog file name at the repository root.
const DefaultPath = "CHANGELOG.md"

// Updater merges version sections into a changelog file idempotently.
// The file is assumed to be owned by the running process; there is no locking.
type Updater struct {
	path string
	out  io.Writer
	opts FormatOptions
}

// NewUpdater returns an updater for the changelog at path.
// Progress and dry-run previews are written to out (io.Discard if nil).
func NewUpdater(path string, out io.Writer, opts FormatOptions) *Updater {
	if out == nil {
		out = io.Discard
	}
	return &Updater{path: path, out: out, opts: opts}
}

// Path returns the changelog file path.
func (u *Updater) Path() string {
	return u.path
}

// Read returns the changelog contents, or the default header if the file
// does not exist yet.
func (u *Updater) Read() (string, error) {
	data, err := os.ReadFile(u.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultHeader(), nil
	}
	if err != nil {
		return "", fmt.Errorf("reading changelog %s: %w", u.path, err)
	}
	return string(data), nil
}

// VersionExists reports whether a "## [version]" header is already present.
func (u *Updater) VersionExists(version string) (bool, error) {
	content, err := u.Read()
	if err != nil {
		return false, err
	}
	return strings.Contains(content, "## ["+version+"]"), nil
}

// PreviousVersion returns the newest version recorded in the changelog.
func (u *Updater) PreviousVersion() (string, bool, error) {
	content, err := u.Read()
	if err != nil {
		return "", false, err
	}
	v, ok := ParseDocument(content).FirstVersion()
	return v, ok, nil
}

// Update merges a version section and its link reference into the changelog.
// It returns false without touching anything when the version is already
// present, so reruns after a failure are safe. In dry-run mode the would-be
// changes are previewed and nothing is written.
func (u *Updater) Update(version, versionSection, linkReference string, dryRun bool) (bool, error) {
	exists, err := u.VersionExists(version)
	if err != nil {
		return false, err
	}
	if exists {
		logDebug("[changelog] version %s already present in %s", version, u.path)
		return false, nil
	}

	content, err := u.Read()
	if err != nil {
		return false, err
	}

	merged := ParseDocument(content).WithVersion(versionSection, linkReference)

	if dryRun {
		if err := FormatPreview(u.out, u.path, versionSection, linkReference, u.opts); err != nil {
			return false, fmt.Errorf("writing preview: %w", err)
		}
		return true, nil
	}

	if err := writeFileAtomic(u.path, []byte(merged.String())); err != nil {
		return false, fmt.Errorf("writing changelog %s: %w", u.path, err)
	}
	FormatUpdated(u.out, u.path, u.opts)
	return true, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, keeping the mode of an existing file.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".changelog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	return os.Rename(tmpName, path)
}
