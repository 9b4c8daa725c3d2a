// Package generator runs the code generation pipeline for one service: it
// builds the run context, drives every stage in order through the plugin
// hooks and the built-in stage logic, and returns the generated files.
package generator

import (
	"context"
	"embed"
	"path"

	"go.uber.org/zap"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/plugin"
	"github.com/teranos/dsg/topic"
)

//go:embed templates/*.go.tmpl
var files embed.FS

const (
	DefaultBaseDir   = "server"
	DefaultPort      = 3000
	DefaultGoVersion = "1.24"
)

// Options describe one generation run
type Options struct {
	Resource    pipeline.Resource
	Directories pipeline.Directories
	Services    []topic.Service

	// Port is the PORT of the generated service
	Port int
	// GoVersion is the go directive of the generated go.mod
	GoVersion string

	// Registry holds the plugins; Plugins names the enabled ones, nil
	// enables every registered plugin. A nil Registry runs without plugins.
	Registry *plugin.Registry
	Plugins  []string

	Logger *zap.SugaredLogger
}

// withDefaults fills in unset directories and settings. Directories default
// to server, server/internal and <src>/messagebroker.
func (o Options) withDefaults() Options {
	if o.Directories.Base == "" {
		o.Directories.Base = DefaultBaseDir
	}
	if o.Directories.Src == "" {
		o.Directories.Src = path.Join(o.Directories.Base, "internal")
	}
	if o.Directories.MessageBroker == "" {
		o.Directories.MessageBroker = path.Join(o.Directories.Src, "messagebroker")
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.GoVersion == "" {
		o.GoVersion = DefaultGoVersion
	}
	if o.Logger == nil {
		o.Logger = logger.ComponentLogger("generator")
	}
	return o
}

// Generate runs every stage in order and returns the generated files. No
// file is returned when a stage fails.
func Generate(ctx context.Context, opts Options) (*modules.Map, error) {
	opts = opts.withDefaults()
	if opts.Resource.ModulePath == "" {
		return nil, errors.WithHint(
			errors.NewInvalidInputError("resource module path is required"),
			"set resource.module_path in dsg.toml",
		)
	}

	hooks := pipeline.NewHooks()
	if opts.Registry != nil {
		var err error
		if hooks, err = opts.Registry.Hooks(opts.Plugins); err != nil {
			return nil, err
		}
	}

	dctx := pipeline.NewContext(opts.Resource, opts.Directories, opts.Services, opts.Logger)
	host := newHost(opts)
	dispatcher := pipeline.NewDispatcher(dctx, hooks, host)

	dctx.Logger.Infow("generation started",
		logger.FieldResource, opts.Resource.Name,
		"plugins", hooks.Owners(),
	)

	for _, stage := range pipeline.Stages() {
		if _, err := dispatcher.RunStage(ctx, stage, host.params(dctx, stage)); err != nil {
			return nil, err
		}
	}

	dctx.Logger.Infow("generation done", logger.FieldCount, dctx.Modules.Len())
	return dctx.Modules, nil
}

// Check generates in memory and compares the result with the files under
// dir. An empty result means dir is up to date.
func Check(ctx context.Context, opts Options, dir string) ([]modules.Difference, error) {
	generated, err := Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	return generated.Diff(dir)
}
