// Package synth builds Go syntax fragments from plain data and appends
// synthesized methods to template declarations.
package synth

import (
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
)

// Ident returns a new identifier
func Ident(name string) *dst.Ident {
	return dst.NewIdent(name)
}

// Selector returns pkg.name
func Selector(pkg, name string) *dst.SelectorExpr {
	return &dst.SelectorExpr{X: Ident(pkg), Sel: Ident(name)}
}

// StringLit returns a quoted string literal
func StringLit(s string) *dst.BasicLit {
	return &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

// Call returns fun(args...)
func Call(fun dst.Expr, args ...dst.Expr) *dst.CallExpr {
	return &dst.CallExpr{Fun: fun, Args: args}
}

// SliceLit returns []elt{elts...}
func SliceLit(elt dst.Expr, elts ...dst.Expr) *dst.CompositeLit {
	return &dst.CompositeLit{Type: &dst.ArrayType{Elt: elt}, Elts: elts}
}

// Any is the unconstrained type used for payloads whose shape is unknown
func Any() *dst.Ident {
	return Ident("any")
}

// Annotation is a comment directive attached to a generated method, rendered
// as //namespace:name(args). Go has no decorators; directives keep the same
// information in a form that tooling can read back.
type Annotation struct {
	Namespace string
	Name      string
	Args      []dst.Expr
}

// Directive renders the annotation as a comment line. Namespace and name are
// lowercased: gofmt only keeps //[a-z0-9]+:[a-z0-9] comments as directives
// and turns anything else into prose.
func (a Annotation) Directive() string {
	return "//" + strings.ToLower(a.Namespace) + ":" + strings.ToLower(a.Name) + "(" + exprList(a.Args) + ")"
}

func exprList(exprs []dst.Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, exprString(e))
	}
	return strings.Join(parts, ", ")
}

// exprString renders the small set of expressions allowed as annotation
// arguments.
func exprString(expr dst.Expr) string {
	switch e := expr.(type) {
	case *dst.Ident:
		return e.Name
	case *dst.BasicLit:
		return e.Value
	case *dst.SelectorExpr:
		return exprString(e.X) + "." + e.Sel.Name
	case *dst.StarExpr:
		return "*" + exprString(e.X)
	case *dst.CallExpr:
		return exprString(e.Fun) + "(" + exprList(e.Args) + ")"
	case *dst.ArrayType:
		if e.Len == nil {
			return "[]" + exprString(e.Elt)
		}
		return "[" + exprString(e.Len) + "]" + exprString(e.Elt)
	case *dst.MapType:
		return "map[" + exprString(e.Key) + "]" + exprString(e.Value)
	case *dst.CompositeLit:
		typ := ""
		if e.Type != nil {
			typ = exprString(e.Type)
		}
		return typ + "{" + exprList(e.Elts) + "}"
	case *dst.KeyValueExpr:
		return exprString(e.Key) + ": " + exprString(e.Value)
	case *dst.UnaryExpr:
		return e.Op.String() + exprString(e.X)
	case *dst.BinaryExpr:
		return exprString(e.X) + " " + e.Op.String() + " " + exprString(e.Y)
	case *dst.ParenExpr:
		return "(" + exprString(e.X) + ")"
	case *dst.IndexExpr:
		return exprString(e.X) + "[" + exprString(e.Index) + "]"
	default:
		return "?"
	}
}

// Param is one method parameter. Its annotations render on the method, with
// the parameter name as the first argument.
type Param struct {
	Name        string
	Type        dst.Expr
	Annotations []Annotation
}

// Member describes a method to synthesize.
//
// An async member receives a context.Context first and returns error after
// Results. An async member with no body returns nil.
type Member struct {
	Name        string
	Doc         string
	Async       bool
	Params      []Param
	Results     []dst.Expr
	Annotations []Annotation
	Body        []dst.Stmt
}

// Receiver names the receiver of a synthesized method
type Receiver struct {
	Name    string
	Type    string
	Pointer bool
}

// Method builds the function declaration for m on recv. The member's
// expressions are cloned, so one Member can be built many times.
func Method(recv Receiver, m Member) *dst.FuncDecl {
	var recvType dst.Expr = Ident(recv.Type)
	if recv.Pointer {
		recvType = &dst.StarExpr{X: recvType}
	}

	params := &dst.FieldList{}
	if m.Async {
		params.List = append(params.List, field("ctx", Selector("context", "Context")))
	}
	for _, p := range m.Params {
		params.List = append(params.List, field(p.Name, cloneExpr(p.Type)))
	}

	var results *dst.FieldList
	if len(m.Results) > 0 || m.Async {
		results = &dst.FieldList{}
		for _, r := range m.Results {
			results.List = append(results.List, &dst.Field{Type: cloneExpr(r)})
		}
		if m.Async {
			results.List = append(results.List, &dst.Field{Type: Ident("error")})
		}
	}

	body := make([]dst.Stmt, 0, len(m.Body)+1)
	for _, stmt := range m.Body {
		body = append(body, dst.Clone(stmt).(dst.Stmt))
	}
	if len(body) == 0 && m.Async {
		body = append(body, &dst.ReturnStmt{Results: []dst.Expr{Ident("nil")}})
	}

	fn := &dst.FuncDecl{
		Recv: &dst.FieldList{List: []*dst.Field{field(recv.Name, recvType)}},
		Name: Ident(m.Name),
		Type: &dst.FuncType{Params: params, Results: results},
		Body: &dst.BlockStmt{List: body},
	}
	fn.Decs.Before = dst.EmptyLine
	fn.Decs.Start = commentLines(m)
	return fn
}

func field(name string, typ dst.Expr) *dst.Field {
	f := &dst.Field{Type: typ}
	if name != "" {
		f.Names = []*dst.Ident{Ident(name)}
	}
	return f
}

func cloneExpr(expr dst.Expr) dst.Expr {
	if expr == nil {
		return Any()
	}
	return dst.Clone(expr).(dst.Expr)
}

// commentLines renders the doc comment followed by the directives. Directives
// are separated from prose by an empty comment line, as gofmt expects.
func commentLines(m Member) dst.Decorations {
	var lines dst.Decorations
	if m.Doc != "" {
		for _, line := range strings.Split(m.Doc, "\n") {
			lines = append(lines, strings.TrimRight("// "+line, " "))
		}
	}

	var directives []string
	for _, a := range m.Annotations {
		directives = append(directives, a.Directive())
	}
	for _, p := range m.Params {
		for _, a := range p.Annotations {
			a.Args = append([]dst.Expr{Ident(p.Name)}, a.Args...)
			directives = append(directives, a.Directive())
		}
	}

	if len(lines) > 0 && len(directives) > 0 {
		lines = append(lines, "//")
	}
	return append(lines, directives...)
}
