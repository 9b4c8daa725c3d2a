package scaffold

import (
	"go/token"

	"github.com/dave/dst"

	"github.com/teranos/dsg/errors"
)

// DeclKind classifies a top-level declaration
type DeclKind int

const (
	KindType DeclKind = iota + 1
	KindFunc
	KindConst
	KindVar
)

func (k DeclKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindFunc:
		return "func"
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	default:
		return "unknown"
	}
}

// Declaration is a named top-level declaration inside a Template.
// A type declaration is an extension point: its members are the methods
// declared on it, and synthesized methods are appended after them.
type Declaration struct {
	tmpl *Template
	decl dst.Decl
	name string
	kind DeclKind
}

// Name returns the declared identifier
func (d *Declaration) Name() string { return d.name }

// Kind returns the declaration kind
func (d *Declaration) Kind() DeclKind { return d.kind }

// Template returns the template the declaration belongs to
func (d *Declaration) Template() *Template { return d.tmpl }

// Lookup returns the first top-level declaration whose name equals name
// exactly. Methods are members of a type, not declarations, and are never
// returned.
func (t *Template) Lookup(name string) (*Declaration, error) {
	for _, decl := range t.file.Decls {
		switch decl := decl.(type) {
		case *dst.FuncDecl:
			if decl.Recv == nil && decl.Name.Name == name {
				return &Declaration{tmpl: t, decl: decl, name: name, kind: KindFunc}, nil
			}
		case *dst.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *dst.TypeSpec:
					if spec.Name.Name == name {
						return &Declaration{tmpl: t, decl: decl, name: name, kind: KindType}, nil
					}
				case *dst.ValueSpec:
					for _, n := range spec.Names {
						if n.Name != name {
							continue
						}
						kind := KindVar
						if decl.Tok == token.CONST {
							kind = KindConst
						}
						return &Declaration{tmpl: t, decl: decl, name: name, kind: kind}, nil
					}
				}
			}
		}
	}

	return nil, errors.WithHint(
		errors.Wrapf(ErrDeclarationNotFound, "template %s has no declaration %q", t.name, name),
		"the template and the code using it are out of sync",
	)
}

// Members returns the methods declared on a type declaration in file order.
// Other declaration kinds have no members.
func (d *Declaration) Members() []*dst.FuncDecl {
	if d.kind != KindType {
		return nil
	}
	var members []*dst.FuncDecl
	for _, decl := range d.tmpl.file.Decls {
		if fn, ok := decl.(*dst.FuncDecl); ok && receiverType(fn) == d.name {
			members = append(members, fn)
		}
	}
	return members
}

// Fields returns the field names of a struct type declaration, embedded
// fields under their type name. Other declarations have no fields.
func (d *Declaration) Fields() []string {
	gen, ok := d.decl.(*dst.GenDecl)
	if d.kind != KindType || !ok {
		return nil
	}
	var names []string
	for _, spec := range gen.Specs {
		ts, ok := spec.(*dst.TypeSpec)
		if !ok || ts.Name.Name != d.name {
			continue
		}
		st, ok := ts.Type.(*dst.StructType)
		if !ok || st.Fields == nil {
			return nil
		}
		for _, field := range st.Fields.List {
			if len(field.Names) == 0 {
				if name := embeddedName(field.Type); name != "" {
					names = append(names, name)
				}
				continue
			}
			for _, n := range field.Names {
				names = append(names, n.Name)
			}
		}
	}
	return names
}

func embeddedName(expr dst.Expr) string {
	switch e := expr.(type) {
	case *dst.Ident:
		return e.Name
	case *dst.StarExpr:
		return embeddedName(e.X)
	case *dst.SelectorExpr:
		return e.Sel.Name
	case *dst.IndexExpr:
		return embeddedName(e.X)
	case *dst.IndexListExpr:
		return embeddedName(e.X)
	}
	return ""
}

// AppendMember inserts fn after the last member of the type, or right after
// the type when it has none, so repeated appends keep call order.
func (d *Declaration) AppendMember(fn *dst.FuncDecl) error {
	if d.kind != KindType {
		return errors.Wrapf(ErrNotExtensible, "%s %s in template %s", d.kind, d.name, d.tmpl.name)
	}
	if recv := receiverType(fn); recv != d.name {
		return errors.NewInvalidInputError("method %s has receiver %q, want %q", fn.Name.Name, recv, d.name)
	}

	decls := d.tmpl.file.Decls
	at := -1
	for i, decl := range decls {
		if decl == d.decl {
			at = i
			continue
		}
		if other, ok := decl.(*dst.FuncDecl); ok && receiverType(other) == d.name {
			at = i
		}
	}
	if at < 0 {
		return errors.AssertionFailedf("declaration %s is no longer part of template %s", d.name, d.tmpl.name)
	}

	decls = append(decls, nil)
	copy(decls[at+2:], decls[at+1:])
	decls[at+1] = fn
	d.tmpl.file.Decls = decls
	return nil
}

// receiverType returns the base type name of a method receiver, or "" for
// plain functions.
func receiverType(fn *dst.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	for {
		switch e := expr.(type) {
		case *dst.StarExpr:
			expr = e.X
		case *dst.IndexExpr:
			expr = e.X
		case *dst.IndexListExpr:
			expr = e.X
		case *dst.ParenExpr:
			expr = e.X
		case *dst.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// InsertDecl inserts decl after the imports, ahead of every other top-level
// declaration.
func (t *Template) InsertDecl(decl dst.Decl) {
	i := 0
	for ; i < len(t.file.Decls); i++ {
		if gen, ok := t.file.Decls[i].(*dst.GenDecl); !ok || gen.Tok != token.IMPORT {
			break
		}
	}

	decls := make([]dst.Decl, 0, len(t.file.Decls)+1)
	decls = append(decls, t.file.Decls[:i]...)
	decls = append(decls, decl)
	t.file.Decls = append(decls, t.file.Decls[i:]...)
}
