package scaffold

import (
	"go/token"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"
)

// EnsureImport adds an import of path to the template unless it is already
// imported under the same name. name may be empty for the default package
// name. It reports whether an import was added.
func (t *Template) EnsureImport(path, name string) bool {
	quoted := strconv.Quote(path)
	for _, spec := range t.file.Imports {
		if spec.Path.Value != quoted {
			continue
		}
		existing := ""
		if spec.Name != nil {
			existing = spec.Name.Name
		}
		if existing == name {
			return false
		}
	}

	spec := &dst.ImportSpec{
		Path: &dst.BasicLit{Kind: token.STRING, Value: quoted},
	}
	if name != "" {
		spec.Name = dst.NewIdent(name)
	}

	var importDecl *dst.GenDecl
	for _, decl := range t.file.Decls {
		if gen, ok := decl.(*dst.GenDecl); ok && gen.Tok == token.IMPORT {
			importDecl = gen
			break
		}
	}

	if importDecl == nil {
		importDecl = &dst.GenDecl{Tok: token.IMPORT}
		importDecl.Decs.After = dst.EmptyLine
		t.file.Decls = append([]dst.Decl{importDecl}, t.file.Decls...)
	}

	if !importDecl.Lparen {
		for _, s := range importDecl.Specs {
			s.Decorations().Before = dst.NewLine
			s.Decorations().After = dst.None
		}
	}
	if len(importDecl.Specs) > 0 {
		spec.Decs.Before = dst.NewLine
	}
	importDecl.Specs = insertImport(importDecl.Specs, spec)
	importDecl.Lparen = len(importDecl.Specs) > 1
	importDecl.Rparen = importDecl.Lparen
	t.file.Imports = append(t.file.Imports, spec)
	return true
}

// insertImport places spec inside the run of imports of the same kind
// (standard library or not), so formatting sorts it into that run instead of
// leaving it as a group of its own.
func insertImport(specs []dst.Spec, spec *dst.ImportSpec) []dst.Spec {
	std := isStdImport(spec)
	at := -1
	for i, s := range specs {
		if is, ok := s.(*dst.ImportSpec); ok && isStdImport(is) == std {
			at = i + 1
		}
	}
	switch {
	case at == -1 && std && len(specs) > 0:
		// leads the block; the previous first import starts its own group
		spec.Decs.Before = specs[0].Decorations().Before
		specs[0].Decorations().Before = dst.EmptyLine
		at = 0
	case at == -1:
		at = len(specs)
		if len(specs) > 0 {
			spec.Decs.Before = dst.EmptyLine
		}
	case at < len(specs):
		spec.Decs.After = dst.None
	}
	return slices.Insert(specs, at, dst.Spec(spec))
}

func isStdImport(spec *dst.ImportSpec) bool {
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}

// Imports returns the import paths of the template in declaration order
func (t *Template) Imports() []string {
	paths := make([]string, 0, len(t.file.Imports))
	for _, spec := range t.file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			p = spec.Path.Value
		}
		paths = append(paths, p)
	}
	return paths
}
