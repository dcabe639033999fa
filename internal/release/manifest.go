package release

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultManifestPath is the plugin manifest, relative to the repository root.
const DefaultManifestPath = ".claude-plugin/plugin.json"

// memberValuePattern matches the colon and string value following an
// object key. Group 1 is the unquoted value.
var memberValuePattern = regexp.MustCompile(`^\s*:\s*"([^"]*)"`)

// Manifest is the plugin manifest carrying the released version.
type Manifest struct {
	path string
}

// NewManifest returns the manifest at path.
func NewManifest(path string) *Manifest {
	return &Manifest{path: path}
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// ReadVersion returns the manifest's "version" field.
func (m *Manifest) ReadVersion() (string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(m.path), kjson.Parser()); err != nil {
		return "", fmt.Errorf("reading manifest %s: %w", m.path, err)
	}
	if !k.Exists("version") {
		return "", fmt.Errorf("manifest %s has no version field", m.path)
	}
	version := k.String("version")
	if version == "" {
		return "", fmt.Errorf("manifest %s has an empty version", m.path)
	}
	return version, nil
}

// WriteVersion sets the manifest's "version" value. The rest of the file,
// including key order and indentation, is left as it was. In dry-run mode
// the change is only reported to out.
func (m *Manifest) WriteVersion(version string, dryRun bool, out io.Writer) error {
	if dryRun {
		fmt.Fprintf(out, "  Would update %s to version %s\n", m.path, version)
		return nil
	}

	if _, err := m.ReadVersion(); err != nil {
		return err
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", m.path, err)
	}

	start, end, err := topLevelVersionSpan(data)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", m.path, err)
	}

	updated := make([]byte, 0, len(data)+len(version))
	updated = append(updated, data[:start]...)
	updated = append(updated, version...)
	updated = append(updated, data[end:]...)

	if err := writeFileAtomic(m.path, updated); err != nil {
		return fmt.Errorf("writing manifest %s: %w", m.path, err)
	}
	fmt.Fprintf(out, "  Updated %s\n", m.path)
	return nil
}

// topLevelVersionSpan returns the byte range of the unquoted value of the
// root object's "version" member. Members of nested objects are skipped
// even when they come first or carry the same value.
func topLevelVersionSpan(data []byte) (int, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	depth := 0
	expectKey := false
	key := ""
	var keyEnd int64

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parsing JSON: %w", err)
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
				if depth == 1 {
					expectKey = d == '{'
				}
			case '}', ']':
				depth--
				if depth == 1 {
					// A nested value of the root object just ended.
					expectKey = true
				}
			}
			continue
		}
		if depth != 1 {
			continue
		}

		if expectKey {
			key, _ = tok.(string)
			keyEnd = dec.InputOffset()
			expectKey = false
			continue
		}
		expectKey = true
		if key != "version" {
			continue
		}
		if _, ok := tok.(string); !ok {
			return 0, 0, fmt.Errorf("version is not a string")
		}
		loc := memberValuePattern.FindSubmatchIndex(data[keyEnd:])
		if loc == nil {
			return 0, 0, fmt.Errorf("cannot locate the version value")
		}
		return int(keyEnd) + loc[2], int(keyEnd) + loc[3], nil
	}
	return 0, 0, fmt.Errorf("no top-level version field")
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, keeping the mode of the existing file.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.tmp")
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
