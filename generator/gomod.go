package generator

import (
	"path"
	"sort"
	"strings"

	"dario.cat/mergo"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
)

const goModFile = "go.mod"

func (h *host) goMod(dctx *pipeline.Context, params pipeline.GoModParams, out *modules.Map) error {
	code, err := renderGoMod(dctx.Resource.ModulePath, h.opts.GoVersion, params.UpdateProperties)
	if err != nil {
		return err
	}
	out.Set(modules.Module{Path: path.Join(dctx.Directories.Base, goModFile), Code: code})
	return nil
}

// renderGoMod merges the updates in order, later versions winning, and
// writes the go.mod of the generated service. Requirements and replacements
// are sorted by module path.
func renderGoMod(modulePath, goVersion string, updates []pipeline.Manifest) (string, error) {
	if err := module.CheckPath(modulePath); err != nil {
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrInvalidInput, "invalid module path %q: %v", modulePath, err),
			"resource.module_path must be a valid Go module path, e.g. example.com/orders",
		)
	}

	merged := pipeline.Manifest{}
	for _, u := range updates {
		if err := mergo.Merge(&merged, u, mergo.WithOverride); err != nil {
			return "", errors.Wrap(err, "failed to merge go.mod updates")
		}
	}

	f := new(modfile.File)
	if err := f.AddModuleStmt(modulePath); err != nil {
		return "", errors.Wrap(err, "failed to set module path")
	}
	if err := f.AddGoStmt(goVersion); err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid go version %q: %v", goVersion, err)
	}

	for _, mod := range sortedKeys(merged.Require) {
		version := merged.Require[mod]
		if err := module.Check(mod, version); err != nil {
			return "", errors.Wrapf(errors.ErrInvalidInput, "invalid requirement %s %s: %v", mod, version, err)
		}
		f.AddNewRequire(mod, version, false)
	}

	for _, old := range sortedKeys(merged.Replace) {
		// "path" for a directory, "path version" for a module
		target := strings.Fields(merged.Replace[old])
		var newPath, newVersion string
		switch len(target) {
		case 1:
			newPath = target[0]
		case 2:
			newPath, newVersion = target[0], target[1]
		default:
			return "", errors.NewInvalidInputError("invalid replacement for %s: %q", old, merged.Replace[old])
		}
		if err := f.AddReplace(old, "", newPath, newVersion); err != nil {
			return "", errors.Wrapf(errors.ErrInvalidInput, "invalid replacement for %s: %v", old, err)
		}
	}

	f.Cleanup()
	data, err := f.Format()
	if err != nil {
		return "", errors.Wrap(err, "failed to format go.mod")
	}
	return string(data), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
