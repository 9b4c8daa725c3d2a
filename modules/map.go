// Package modules holds the generated output of one run: an ordered,
// path-keyed set of files.
package modules

import (
	"go.uber.org/zap"

	"github.com/teranos/dsg/logger"
)

// Module is one generated file. Path is slash-separated and relative to the
// output root.
type Module struct {
	Path string
	Code string
}

// Map is an ordered collection of modules keyed by path.
//
// Merge policy: Set on an existing path replaces its code (last write wins)
// and keeps the path's original position. There is no content merging.
// A Map is not safe for concurrent use.
type Map struct {
	logger *zap.SugaredLogger
	order  []string
	code   map[string]string
}

// New returns an empty Map. The logger only reports overwrites; nil is
// allowed.
func New(log *zap.SugaredLogger) *Map {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Map{
		logger: log,
		code:   make(map[string]string),
	}
}

// Set inserts m, or replaces the code of the module already at m.Path
func (mm *Map) Set(m Module) {
	if prev, exists := mm.code[m.Path]; exists {
		if prev != m.Code {
			mm.logger.Debugw("module overwritten", logger.FieldPath, m.Path)
		}
		mm.code[m.Path] = m.Code
		return
	}
	mm.order = append(mm.order, m.Path)
	mm.code[m.Path] = m.Code
}

// Merge sets every module of other in other's order. A nil other is a no-op.
func (mm *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for _, m := range other.Entries() {
		mm.Set(m)
	}
}

// Get returns the module at path
func (mm *Map) Get(path string) (Module, bool) {
	code, ok := mm.code[path]
	if !ok {
		return Module{}, false
	}
	return Module{Path: path, Code: code}, true
}

// Entries returns a snapshot of the modules in insertion order
func (mm *Map) Entries() []Module {
	entries := make([]Module, 0, len(mm.order))
	for _, p := range mm.order {
		entries = append(entries, Module{Path: p, Code: mm.code[p]})
	}
	return entries
}

// Paths returns the module paths in insertion order
func (mm *Map) Paths() []string {
	return append([]string(nil), mm.order...)
}

// Len returns the number of modules
func (mm *Map) Len() int {
	return len(mm.order)
}
