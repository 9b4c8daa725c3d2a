package generator

import (
	"go/token"
	"path"

	"github.com/dave/dst"
	"github.com/iancoleman/strcase"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/scaffold"
	"github.com/teranos/dsg/synth"
	"github.com/teranos/dsg/topic"
)

func (h *host) topicsEnum(dctx *pipeline.Context, params pipeline.TopicsEnumParams, out *modules.Map) error {
	fileName := params.FileName
	if fileName == "" {
		fileName = topicsFile
	}

	code, err := renderTopics(path.Base(dctx.Directories.MessageBroker), dctx.ServiceTopics)
	if err != nil {
		return err
	}

	filePath := path.Join(dctx.Directories.MessageBroker, fileName)
	h.logger.Debugw("topics enum",
		logger.FieldPath, filePath,
		logger.FieldCount, len(topic.Names(dctx.ServiceTopics)),
	)
	out.Set(modules.Module{Path: filePath, Code: code})
	return nil
}

// TopicConstName is the Go constant of a topic name, e.g. TopicOrderCreated
// for "order.created"
func TopicConstName(name string) string {
	return "Topic" + strcase.ToCamel(name)
}

// renderTopics declares a constant per distinct topic name, the list of all
// topics and the list of received topics
func renderTopics(pkg string, services []topic.Service) (string, error) {
	tmpl, err := scaffold.Load(files, "templates/topics.go.tmpl")
	if err != nil {
		return "", err
	}

	names := topic.Names(services)
	consts := make(map[string]string, len(names))
	byName := make(map[string]string, len(names))
	for _, name := range names {
		ident := TopicConstName(name)
		if !token.IsIdentifier(ident) {
			return "", errors.NewInvalidInputError("topic %q has no valid constant name (got %q)", name, ident)
		}
		if other, taken := consts[ident]; taken {
			return "", errors.NewInvalidInputError("topics %q and %q both map to %s", other, name, ident)
		}
		consts[ident] = name
		byName[name] = ident
	}

	all := make([]dst.Expr, 0, len(names))
	for _, name := range names {
		all = append(all, synth.Ident(byName[name]))
	}

	var received []dst.Expr
	seen := make(map[string]bool)
	for _, svc := range services {
		for _, p := range svc.Patterns {
			if p.Direction != topic.Receive || p.Name == "" || seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			received = append(received, synth.Ident(byName[p.Name]))
		}
	}

	if err := tmpl.Interpolate(scaffold.Mapping{
		"TOPICS":        synth.SliceLit(synth.Ident("string"), all...),
		"SUBSCRIPTIONS": synth.SliceLit(synth.Ident("string"), received...),
	}); err != nil {
		return "", err
	}

	if len(names) > 0 {
		tmpl.InsertDecl(constDecl(names, byName))
	}
	tmpl.SetPackage(pkg)

	code, err := tmpl.Render()
	if err != nil {
		return "", err
	}
	return string(code), nil
}

func constDecl(names []string, byName map[string]string) *dst.GenDecl {
	decl := &dst.GenDecl{Tok: token.CONST, Lparen: true, Rparen: true}
	for _, name := range names {
		decl.Specs = append(decl.Specs, &dst.ValueSpec{
			Names:  []*dst.Ident{dst.NewIdent(byName[name])},
			Values: []dst.Expr{synth.StringLit(name)},
		})
	}
	decl.Decs.Before = dst.EmptyLine
	decl.Decs.Start.Append("// Topic names.")
	return decl
}
