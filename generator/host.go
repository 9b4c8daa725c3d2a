package generator

import (
	"context"
	"path"
	"strconv"

	"go.uber.org/zap"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/scaffold"
	"github.com/teranos/dsg/synth"
)

const (
	topicsFile = "topics.go"
	appDir     = "app"
	appFile    = "modules.go"
)

// host is the built-in logic of every stage. Plugins shape its input in
// before hooks and add files in after hooks.
type host struct {
	opts   Options
	logger *zap.SugaredLogger
}

var _ pipeline.Executor = (*host)(nil)

func newHost(opts Options) *host {
	return &host{opts: opts, logger: opts.Logger.Named("host")}
}

// params returns the initial parameters of stage. They are built when the
// stage starts so they see directories redirected by earlier stages.
func (h *host) params(dctx *pipeline.Context, stage pipeline.Stage) any {
	switch stage {
	case pipeline.CreateServerDotEnv:
		return pipeline.DotEnvParams{EnvVariables: []pipeline.EnvVar{
			{Key: "PORT", Value: strconv.Itoa(h.opts.Port)},
		}}
	case pipeline.CreateServerGoMod:
		return pipeline.GoModParams{UpdateProperties: []pipeline.Manifest{{}}}
	case pipeline.CreateServerDockerComposeDev:
		return pipeline.DockerComposeParams{}
	case pipeline.CreateMessageBroker:
		return pipeline.MessageBrokerParams{}
	case pipeline.CreateMessageBrokerTopicsEnum:
		return pipeline.TopicsEnumParams{FileName: topicsFile}
	case pipeline.CreateMessageBrokerClientOptionsFactory:
		return pipeline.ClientOptionsFactoryParams{}
	case pipeline.CreateMessageBrokerModule:
		return pipeline.BrokerModuleParams{}
	case pipeline.CreateMessageBrokerService:
		return pipeline.BrokerServiceParams{}
	case pipeline.CreateServerAppModule:
		return pipeline.AppModuleParams{
			TemplateMapping: scaffold.Mapping{
				"MODULES": synth.SliceLit(synth.Ident("Module")),
			},
			ModuleFiles: modules.New(dctx.Logger),
		}
	}
	return nil
}

func (h *host) Execute(ctx context.Context, dctx *pipeline.Context, stage pipeline.Stage, params any) (*modules.Map, error) {
	out := modules.New(dctx.Logger)

	var err error
	switch p := params.(type) {
	case pipeline.DotEnvParams:
		err = h.dotEnv(dctx, p, out)
	case pipeline.GoModParams:
		err = h.goMod(dctx, p, out)
	case pipeline.DockerComposeParams:
		err = h.dockerCompose(dctx, p, out)
	case pipeline.MessageBrokerParams:
		h.logger.Debugw("message broker directory",
			logger.FieldStage, stage.String(),
			logger.FieldDirectory, dctx.Directories.MessageBroker,
		)
	case pipeline.TopicsEnumParams:
		err = h.topicsEnum(dctx, p, out)
	case pipeline.ClientOptionsFactoryParams, pipeline.BrokerModuleParams, pipeline.BrokerServiceParams:
		// Broker specific files come from the broker plugin
	case pipeline.AppModuleParams:
		err = h.appModule(dctx, p, out)
	default:
		return nil, errors.Wrapf(pipeline.ErrParamsType, "%s cannot run with %T", stage, params)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// appModule renders the app module list and writes the files the module
// list refers to
func (h *host) appModule(dctx *pipeline.Context, params pipeline.AppModuleParams, out *modules.Map) error {
	tmpl, err := scaffold.Load(files, "templates/app.go.tmpl")
	if err != nil {
		return err
	}
	if err := tmpl.Interpolate(params.TemplateMapping); err != nil {
		return err
	}
	for _, p := range params.Imports {
		tmpl.EnsureImport(p, "")
	}
	if left := tmpl.Placeholders(); len(left) > 0 {
		return errors.WithDetailf(
			errors.NewInvalidInputError("app module has unresolved placeholders"),
			"placeholders: %v", left,
		)
	}

	code, err := tmpl.Render()
	if err != nil {
		return err
	}
	out.Set(modules.Module{
		Path: path.Join(dctx.Directories.Src, appDir, appFile),
		Code: string(code),
	})
	out.Merge(params.ModuleFiles)
	return nil
}
