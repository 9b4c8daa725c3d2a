package kafka

import (
	"context"
	"path"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/dave/dst"
	"github.com/iancoleman/strcase"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/scaffold"
	"github.com/teranos/dsg/synth"
)

const (
	controllerFile    = "controller.go"
	clientOptionsFile = "client_options.go"
	moduleFile        = "module.go"
	serviceFile       = "service.go"
)

func (p *Plugin) beforeCreateServerDotEnv(ctx context.Context, dctx *pipeline.Context, params pipeline.DotEnvParams) (pipeline.DotEnvParams, error) {
	id := strcase.ToKebab(dctx.Resource.Name)

	vars := []pipeline.EnvVar{
		{Key: "KAFKA_BROKERS", Value: strings.Join(p.settings.Brokers, ",")},
		{Key: "KAFKA_ENABLE_SSL", Value: strconv.FormatBool(p.settings.EnableSSL)},
		{Key: "KAFKA_CLIENT_ID", Value: id},
		{Key: "KAFKA_GROUP_ID", Value: id},
	}

	envVariables := make([]pipeline.EnvVar, 0, len(params.EnvVariables)+len(vars))
	envVariables = append(envVariables, params.EnvVariables...)
	envVariables = append(envVariables, vars...)
	return pipeline.DotEnvParams{EnvVariables: envVariables}, nil
}

func (p *Plugin) beforeCreateServerGoMod(ctx context.Context, dctx *pipeline.Context, params pipeline.GoModParams) (pipeline.GoModParams, error) {
	kafkaManifest := pipeline.Manifest{
		Require: map[string]string{clientModule: p.settings.ClientVersion},
	}

	for i := range params.UpdateProperties {
		if err := mergo.Merge(&params.UpdateProperties[i], kafkaManifest, mergo.WithOverride); err != nil {
			return params, errors.Wrap(err, "failed to merge kafka requirements")
		}
	}
	return params, nil
}

func (p *Plugin) beforeCreateDockerComposeDev(ctx context.Context, dctx *pipeline.Context, params pipeline.DockerComposeParams) (pipeline.DockerComposeParams, error) {
	params.UpdateProperties = append(params.UpdateProperties, composeServices())
	return params, nil
}

// composeServices is the dev compose fragment: zookeeper, a single broker
// and kafka-ui on the "internal" network
func composeServices() map[string]any {
	const (
		kafkaName     = "kafka"
		zookeeperName = "zookeeper"
		kafkaUIName   = "kafka-ui"
		network       = "internal"
		zookeeperPort = "2181"
		kafkaPort     = "9092"
	)

	return map[string]any{
		"services": map[string]any{
			zookeeperName: map[string]any{
				"image":    "confluentinc/cp-zookeeper:5.2.4",
				"networks": []any{network},
				"environment": map[string]any{
					"ZOOKEEPER_CLIENT_PORT": 2181,
					"ZOOKEEPER_TICK_TIME":   2000,
				},
				"ports": []any{zookeeperPort + ":" + zookeeperPort},
			},
			kafkaName: map[string]any{
				"image":      "confluentinc/cp-kafka:7.3.1",
				"networks":   []any{network},
				"depends_on": []any{zookeeperName},
				"ports":      []any{"9092:9092", "9997:9997"},
				"environment": map[string]any{
					"KAFKA_BROKER_ID":                        1,
					"KAFKA_ZOOKEEPER_CONNECT":                zookeeperName + ":" + zookeeperPort,
					"KAFKA_ADVERTISED_LISTENERS":             "PLAINTEXT://" + kafkaName + ":29092,PLAINTEXT_HOST://localhost:" + kafkaPort,
					"KAFKA_LISTENER_SECURITY_PROTOCOL_MAP":   "PLAINTEXT:PLAINTEXT,PLAINTEXT_HOST:PLAINTEXT",
					"KAFKA_INTER_BROKER_LISTENER_NAME":       "PLAINTEXT",
					"KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR": 1,
					"KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR": 1,
					"KAFKA_TRANSACTION_STATE_LOG_MIN_ISR":            1,
				},
			},
			kafkaUIName: map[string]any{
				"container_name": kafkaUIName,
				"image":          "provectuslabs/kafka-ui:latest",
				"ports":          []any{"8080:8080"},
				"depends_on":     []any{zookeeperName, kafkaName},
				"environment": map[string]any{
					"KAFKA_CLUSTERS_0_NAME":             "local",
					"KAFKA_CLUSTERS_0_BOOTSTRAPSERVERS": kafkaName + ":29092",
					"KAFKA_CLUSTERS_0_ZOOKEEPER":        zookeeperName + ":" + zookeeperPort,
					"KAFKA_CLUSTERS_0_JMXPORT":          9997,
				},
			},
		},
		"networks": map[string]any{
			network: map[string]any{
				"name":   network,
				"driver": "bridge",
			},
		},
	}
}

func (p *Plugin) beforeCreateBroker(ctx context.Context, dctx *pipeline.Context, params pipeline.MessageBrokerParams) (pipeline.MessageBrokerParams, error) {
	dctx.Directories.MessageBroker = path.Join(dctx.Directories.Src, brokerDirName)
	return params, nil
}

// beforeCreateTopicsEnum synthesizes the controller: one async handler per
// received topic, appended to the controller type in registry order.
func (p *Plugin) beforeCreateTopicsEnum(ctx context.Context, dctx *pipeline.Context, params pipeline.TopicsEnumParams) (pipeline.TopicsEnumParams, error) {
	tmpl, err := scaffold.Load(files, "templates/controller.go.tmpl")
	if err != nil {
		return params, err
	}

	if err := tmpl.Interpolate(scaffold.Mapping{"CONTROLLER": synth.Ident(controllerName)}); err != nil {
		return params, err
	}
	controller, err := tmpl.Lookup(controllerName)
	if err != nil {
		return params, err
	}

	n, err := synth.Members(dctx.ServiceTopics, controller, synth.InboundPolicy(directive, "k"))
	if err != nil {
		return params, err
	}

	tmpl.SetPackage(path.Base(dctx.Directories.MessageBroker))
	code, err := tmpl.Render()
	if err != nil {
		return params, err
	}

	filePath := path.Join(dctx.Directories.MessageBroker, controllerFile)
	dctx.Logger.Debugw("controller synthesized",
		logger.FieldPlugin, Name,
		logger.FieldPath, filePath,
		logger.FieldCount, n,
	)
	dctx.Modules.Set(modules.Module{Path: filePath, Code: string(code)})
	return params, nil
}

// staticModule renders a static broker file into the broker directory
func staticModule(dctx *pipeline.Context, name, fileName string) (modules.Module, error) {
	tmpl, err := scaffold.Load(files, "static/"+name)
	if err != nil {
		return modules.Module{}, err
	}
	tmpl.SetPackage(path.Base(dctx.Directories.MessageBroker))
	code, err := tmpl.Render()
	if err != nil {
		return modules.Module{}, err
	}
	return modules.Module{
		Path: path.Join(dctx.Directories.MessageBroker, fileName),
		Code: string(code),
	}, nil
}

func (p *Plugin) afterCreateClientOptionsFactory(ctx context.Context, dctx *pipeline.Context, params pipeline.ClientOptionsFactoryParams, produced *modules.Map) (*modules.Map, error) {
	m, err := staticModule(dctx, "client_options.go.tmpl", clientOptionsFile)
	if err != nil {
		return nil, err
	}
	out := modules.New(dctx.Logger)
	out.Set(m)
	return out, nil
}

func (p *Plugin) afterCreateBrokerModule(ctx context.Context, dctx *pipeline.Context, params pipeline.BrokerModuleParams, produced *modules.Map) (*modules.Map, error) {
	m, err := staticModule(dctx, "module.go.tmpl", moduleFile)
	if err != nil {
		return nil, err
	}
	dctx.BrokerModule = &m

	out := modules.New(dctx.Logger)
	out.Set(m)
	return out, nil
}

func (p *Plugin) afterCreateBrokerService(ctx context.Context, dctx *pipeline.Context, params pipeline.BrokerServiceParams, produced *modules.Map) (*modules.Map, error) {
	m, err := staticModule(dctx, "service.go.tmpl", serviceFile)
	if err != nil {
		return nil, err
	}
	out := modules.New(dctx.Logger)
	out.Set(m)
	return out, nil
}

// beforeCreateServerAppModule puts the broker module first in the app's
// module list. It needs the module file recorded at CreateMessageBrokerModule.
func (p *Plugin) beforeCreateServerAppModule(ctx context.Context, dctx *pipeline.Context, params pipeline.AppModuleParams) (pipeline.AppModuleParams, error) {
	file := dctx.BrokerModule
	if file == nil {
		return params, errors.WithHint(
			errors.Wrap(pipeline.ErrUnresolvedPrerequisite, "kafka module file not found"),
			"CreateMessageBrokerModule must run before CreateServerAppModule",
		)
	}

	current, ok := params.TemplateMapping["MODULES"].(*dst.CompositeLit)
	if !ok {
		return params, errors.Wrapf(pipeline.ErrParamsType, "MODULES mapping is %T, want a composite literal", params.TemplateMapping["MODULES"])
	}

	importPath, err := dctx.ImportPath(dctx.Directories.MessageBroker)
	if err != nil {
		return params, err
	}
	pkg := path.Base(dctx.Directories.MessageBroker)

	list := dst.Clone(current).(*dst.CompositeLit)
	list.Elts = append([]dst.Expr{synth.Call(synth.Selector(pkg, "NewModule"))}, list.Elts...)
	params.TemplateMapping["MODULES"] = list

	params.Imports = append(params.Imports, importPath)
	if params.ModuleFiles == nil {
		params.ModuleFiles = modules.New(dctx.Logger)
	}
	params.ModuleFiles.Set(*file)
	return params, nil
}
