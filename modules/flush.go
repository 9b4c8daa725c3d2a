package modules

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/teranos/dsg/errors"
)

// resolve maps a module path onto dir, rejecting paths that would escape it
func resolve(dir, p string) (string, error) {
	clean := path.Clean(p)
	if p == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.NewInvalidInputError("module path %q is not relative to the output directory", p)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

// Flush writes every module under dir, creating directories as needed.
// It returns the number of files written.
func (mm *Map) Flush(dir string) (int, error) {
	// Validate all paths before touching the filesystem
	targets := make([]string, 0, len(mm.order))
	for _, p := range mm.order {
		target, err := resolve(dir, p)
		if err != nil {
			return 0, err
		}
		targets = append(targets, target)
	}

	for i, p := range mm.order {
		if err := os.MkdirAll(filepath.Dir(targets[i]), 0755); err != nil {
			return i, errors.Wrapf(err, "failed to create directory for %s", p)
		}
		if err := os.WriteFile(targets[i], []byte(mm.code[p]), 0644); err != nil {
			return i, errors.Wrapf(err, "failed to write %s", p)
		}
	}
	return len(mm.order), nil
}

// Difference is a module whose content on disk does not match
type Difference struct {
	Path   string
	Reason string // "missing", "changed" or a read error
}

// Diff compares the modules with the files under dir. It returns the
// modules that are missing or differ, in module order.
func (mm *Map) Diff(dir string) ([]Difference, error) {
	var diffs []Difference
	for _, p := range mm.order {
		target, err := resolve(dir, p)
		if err != nil {
			return nil, err
		}

		existing, err := os.ReadFile(target)
		switch {
		case os.IsNotExist(err):
			diffs = append(diffs, Difference{Path: p, Reason: "missing"})
		case err != nil:
			diffs = append(diffs, Difference{Path: p, Reason: "error: " + err.Error()})
		case !bytes.Equal(existing, []byte(mm.code[p])):
			diffs = append(diffs, Difference{Path: p, Reason: "changed"})
		}
	}
	return diffs, nil
}
