// Package scaffold parses Go source templates, substitutes their placeholders
// and exposes declarations that synthesized members can be appended to.
//
// A template is ordinary Go source in which placeholders are identifiers
// spelled in upper snake case:
//
//	type CONTROLLER struct{}
//
//	func Modules() []Module {
//		return MODULES
//	}
//
// Templates are parsed into a decorated syntax tree (github.com/dave/dst), so
// comments attached to nodes survive any amount of rewriting.
package scaffold

import (
	"bytes"
	"go/parser"
	"go/token"
	"io/fs"
	"regexp"
	"sort"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/imports"

	"github.com/teranos/dsg/errors"
)

var placeholderPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)

// IsPlaceholder reports whether name is spelled like a placeholder
func IsPlaceholder(name string) bool {
	return len(name) > 1 && placeholderPattern.MatchString(name)
}

// Template is one parsed scaffold. It is mutated in place by Interpolate and
// AppendMember and must not be shared between generation runs.
type Template struct {
	name string
	file *dst.File
}

// Parse parses Go template source. name is used in errors and positions only.
func Parse(name string, src []byte) (*Template, error) {
	f, err := decorator.ParseFile(token.NewFileSet(), name, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", name)
	}
	return &Template{name: name, file: f}, nil
}

// Load reads and parses a template from fsys, typically an embed.FS
func Load(fsys fs.FS, name string) (*Template, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template %s", name)
	}
	return Parse(name, src)
}

// Name returns the name the template was parsed under
func (t *Template) Name() string {
	return t.name
}

// Package returns the template's package name
func (t *Template) Package() string {
	return t.file.Name.Name
}

// SetPackage renames the template's package clause
func (t *Template) SetPackage(name string) {
	t.file.Name.Name = name
}

// Placeholders returns the distinct placeholder names still present in the
// template, sorted.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	dst.Inspect(t.file, func(n dst.Node) bool {
		if ident, ok := n.(*dst.Ident); ok && ident.Path == "" && IsPlaceholder(ident.Name) {
			seen[ident.Name] = true
		}
		return true
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render prints the template back to Go source. Import blocks are sorted and
// grouped; the output is gofmt-formatted and deterministic.
func (t *Template) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, t.file); err != nil {
		return nil, errors.Wrapf(err, "failed to print template %s", t.name)
	}

	out, err := imports.Process(t.name, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, errors.WithDetail(
			errors.Wrapf(err, "rendered template %s is not valid Go", t.name),
			buf.String(),
		)
	}
	return out, nil
}
