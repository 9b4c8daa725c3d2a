package scaffold

import (
	"reflect"

	"github.com/dave/dst"
	"github.com/dave/dst/dstutil"

	"github.com/teranos/dsg/errors"
)

// Mapping maps placeholder names to the expression that replaces them
type Mapping map[string]dst.Expr

// Interpolate replaces every identifier named by a key of mapping with a
// clone of its replacement. The walk is depth-first pre-order over the whole
// file and replacements are not walked again, so a replacement may itself
// contain the placeholder it replaces. Identifiers with no mapping entry are
// left untouched.
//
// Every occurrence is checked before anything is replaced: on error the
// template is unchanged.
func (t *Template) Interpolate(mapping Mapping) error {
	if len(mapping) == 0 {
		return nil
	}

	var firstErr error
	dstutil.Apply(t.file, func(c *dstutil.Cursor) bool {
		repl, ok := replacementFor(c.Node(), mapping)
		if !ok {
			return true
		}
		if firstErr == nil && !fitsSlot(c, repl) {
			firstErr = errors.Wrapf(ErrIncompatibleReplacement,
				"%s: cannot put %T where placeholder %s appears (%T.%s)",
				t.name, repl, c.Node().(*dst.Ident).Name, c.Parent(), c.Name())
		}
		return false
	}, nil)
	if firstErr != nil {
		return firstErr
	}

	dstutil.Apply(t.file, func(c *dstutil.Cursor) bool {
		repl, ok := replacementFor(c.Node(), mapping)
		if !ok {
			return true
		}
		ident := c.Node().(*dst.Ident)
		clone := dst.Clone(repl)
		keepDecorations(ident, clone)
		c.Replace(clone)
		return false
	}, nil)

	return nil
}

func replacementFor(n dst.Node, mapping Mapping) (dst.Expr, bool) {
	ident, ok := n.(*dst.Ident)
	if !ok || ident.Path != "" {
		return nil, false
	}
	repl, ok := mapping[ident.Name]
	if !ok || repl == nil {
		return nil, false
	}
	return repl, true
}

// fitsSlot reports whether repl is assignable to the parent field the cursor
// points at. Most identifier slots are dst.Expr, but declaration names are
// *dst.Ident and accept nothing else.
func fitsSlot(c *dstutil.Cursor, repl dst.Expr) bool {
	parent := reflect.ValueOf(c.Parent())
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}
	field := parent.FieldByName(c.Name())
	if !field.IsValid() {
		return false
	}

	slot := field.Type()
	if c.Index() >= 0 {
		slot = slot.Elem()
	}
	return reflect.TypeOf(repl).AssignableTo(slot)
}

// keepDecorations moves comments attached to the placeholder onto its
// replacement unless the replacement brings its own.
func keepDecorations(from *dst.Ident, to dst.Node) {
	decs := to.Decorations()
	if decs.Before == dst.None {
		decs.Before = from.Decs.Before
	}
	if decs.After == dst.None {
		decs.After = from.Decs.After
	}
	if len(decs.Start) == 0 {
		decs.Start = append(decs.Start, from.Decs.Start...)
	}
	if len(decs.End) == 0 {
		decs.End = append(decs.End, from.Decs.End...)
	}
}
