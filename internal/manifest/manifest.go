package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"venvctl/internal/runner"
)

var (
	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrManifestParse indicates the manifest contains a malformed entry.
	ErrManifestParse = errors.New("manifest entry invalid")
)

// Entry is one dependency declaration from the manifest.
type Entry struct {
	Raw        string
	Name       string
	Constraint string
}

// Manifest is the declarative dependency list consumed by the installer.
// It is owned and versioned outside this tool and never written here.
type Manifest struct {
	Path    string
	Entries []Entry
}

// PEP 508 name, optional extras, optional version constraint, optional
// environment marker. Resolution of the constraint itself is pip's job; this
// only rejects lines pip would refuse to parse.
var specifierRe = regexp.MustCompile(
	`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?` + // name
		`(\[[A-Za-z0-9._,\s-]+\])?` + // extras
		`\s*((===|==|~=|!=|>=|<=|>|<)\s*[A-Za-z0-9.*+!_-]+(\s*,\s*(===|==|~=|!=|>=|<=|>|<)\s*[A-Za-z0-9.*+!_-]+)*)?` + // constraints
		`\s*(;.*)?$`) // marker

// Load reads and validates a manifest through the given runner. Validation
// happens before any install so a malformed file fails the pipeline without
// touching the environment.
func Load(r runner.Runner, path string) (*Manifest, error) {
	if r == nil {
		r = runner.LocalRunner{}
	}

	data, err := r.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	m := &Manifest{Path: path}
	for i, line := range strings.Split(string(data), "\n") {
		entry, ok, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrManifestParse, path, i+1, err)
		}
		if ok {
			m.Entries = append(m.Entries, entry)
		}
	}
	return m, nil
}

func parseLine(line string) (Entry, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false, nil
	}
	// pip option lines (-r, -e, --index-url, ...) pass through unvalidated.
	if strings.HasPrefix(trimmed, "-") {
		return Entry{Raw: trimmed}, true, nil
	}
	if idx := strings.Index(trimmed, " #"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	if !specifierRe.MatchString(trimmed) {
		return Entry{}, false, fmt.Errorf("bad specifier %q", trimmed)
	}
	return Entry{
		Raw:        trimmed,
		Name:       specifierName(trimmed),
		Constraint: specifierConstraint(trimmed),
	}, true, nil
}

func specifierName(spec string) string {
	end := len(spec)
	for i, r := range spec {
		if strings.ContainsRune("[<>=!~; ", r) {
			end = i
			break
		}
	}
	return spec[:end]
}

func specifierConstraint(spec string) string {
	rest := spec[len(specifierName(spec)):]
	if idx := strings.Index(rest, "]"); idx >= 0 {
		rest = rest[idx+1:]
	}
	if idx := strings.Index(rest, ";"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
