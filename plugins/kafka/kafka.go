// Package kafka is the Kafka message broker plugin. It adds broker settings
// to the generated .env, go.mod and docker-compose files, synthesizes a
// controller with one handler per received topic, emits the client, module
// and service files and wires the module into the app.
package kafka

import (
	"context"
	"embed"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/plugin"
)

//go:embed templates/*.go.tmpl static/*.go.tmpl
var files embed.FS

const (
	// Name is the plugin name used in configuration
	Name = "kafka"

	// DefaultBrokers is the KAFKA_BROKERS value of a local setup
	DefaultBrokers = "localhost:9092"

	// DefaultClientVersion is the github.com/segmentio/kafka-go version
	// required by generated services
	DefaultClientVersion = "v0.4.47"

	clientModule   = "github.com/segmentio/kafka-go"
	controllerName = "KafkaController"
	directive      = "kafka"
	brokerDirName  = "kafka"
)

// Settings are the plugin options read from the [plugin.kafka] config table
type Settings struct {
	Brokers       []string
	EnableSSL     bool
	ClientVersion string
}

// Plugin is the Kafka broker plugin
type Plugin struct {
	settings Settings
	logger   *zap.SugaredLogger
}

// New returns the plugin with default settings
func New() *Plugin {
	return &Plugin{
		settings: Settings{
			Brokers:       []string{DefaultBrokers},
			ClientVersion: DefaultClientVersion,
		},
		logger: zap.NewNop().Sugar(),
	}
}

var _ plugin.Initializer = (*Plugin)(nil)

func (p *Plugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:             Name,
		Version:          "0.3.0",
		GeneratorVersion: ">=0.1.0-0",
		Description:      "Kafka message broker: controller, client, module and dev compose services",
		Author:           "dsg",
		License:          "Apache-2.0",
	}
}

// Init reads the plugin settings. Missing keys keep their defaults.
func (p *Plugin) Init(ctx context.Context, services plugin.ServiceRegistry) error {
	if services == nil {
		return nil
	}
	p.logger = services.Logger(Name)

	cfg := services.Config(Name)
	if cfg == nil {
		return nil
	}
	if cfg.IsSet("brokers") {
		var brokers []string
		for _, b := range cfg.GetStringSlice("brokers") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		if len(brokers) > 0 {
			p.settings.Brokers = brokers
		}
	}
	if cfg.IsSet("enable_ssl") {
		p.settings.EnableSSL = cfg.GetBool("enable_ssl")
	}
	if v := cfg.GetString("client_version"); v != "" {
		p.settings.ClientVersion = v
	}

	p.logger.Debugw("kafka plugin configured",
		"brokers", strings.Join(p.settings.Brokers, ","),
		"enable_ssl", p.settings.EnableSSL,
		"client_version", p.settings.ClientVersion,
	)
	return nil
}

// Settings returns the effective settings
func (p *Plugin) Settings() Settings {
	return p.settings
}

// Register returns the hooks of the plugin. Stage order matters: the broker
// directory is redirected before the broker files are written, and the
// module file is recorded before the app module is assembled.
func (p *Plugin) Register() pipeline.Events {
	return pipeline.Events{
		pipeline.CreateServerDotEnv: {
			Before: pipeline.Before(p.beforeCreateServerDotEnv),
		},
		pipeline.CreateServerGoMod: {
			Before: pipeline.Before(p.beforeCreateServerGoMod),
		},
		pipeline.CreateServerDockerComposeDev: {
			Before: pipeline.Before(p.beforeCreateDockerComposeDev),
		},
		pipeline.CreateMessageBroker: {
			Before: pipeline.Before(p.beforeCreateBroker),
		},
		pipeline.CreateMessageBrokerTopicsEnum: {
			Before: pipeline.Before(p.beforeCreateTopicsEnum),
		},
		pipeline.CreateMessageBrokerClientOptionsFactory: {
			After: pipeline.After(p.afterCreateClientOptionsFactory),
		},
		pipeline.CreateMessageBrokerModule: {
			After: pipeline.After(p.afterCreateBrokerModule),
		},
		pipeline.CreateMessageBrokerService: {
			After: pipeline.After(p.afterCreateBrokerService),
		},
		pipeline.CreateServerAppModule: {
			Before: pipeline.Before(p.beforeCreateServerAppModule),
		},
	}
}
