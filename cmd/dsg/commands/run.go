package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/dsg/am"
	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/generator"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/pipeline"
	"github.com/teranos/dsg/plugin"
	"github.com/teranos/dsg/plugins/kafka"
	"github.com/teranos/dsg/version"
)

// NewRegistry returns the registry of the built-in plugins
func NewRegistry() (*plugin.Registry, error) {
	registry := plugin.NewRegistry(version.Version)
	for _, p := range []plugin.Plugin{kafka.New()} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// verbosity returns the -v count, or log.verbosity when the flag is unset
func verbosity(cmd *cobra.Command, cfg *am.Config) int {
	if cmd.Flags().Changed("verbose") {
		n, _ := cmd.Flags().GetCount("verbose")
		return n
	}
	if cfg != nil {
		return cfg.Log.Verbosity
	}
	return logger.VerbosityUser
}

// loadConfig loads and validates the configuration and applies its log
// settings where no flag overrides them
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Log.JSON && !cmd.Flags().Changed("json-logs") {
		if err := logger.Initialize(true); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	logger.SetVerbosity(verbosity(cmd, cfg))
	return cfg, nil
}

// buildOptions turns the configuration into generator options with the
// enabled plugins initialized
func buildOptions(ctx context.Context, cfg *am.Config) (generator.Options, error) {
	services, err := cfg.ServiceTopics()
	if err != nil {
		return generator.Options{}, err
	}

	registry, err := NewRegistry()
	if err != nil {
		return generator.Options{}, err
	}

	// An empty list enables no plugin, unlike a nil one
	enabled := cfg.Plugin.Enabled
	if enabled == nil {
		enabled = []string{}
	}

	v, err := am.GetViper()
	if err != nil {
		return generator.Options{}, err
	}
	pluginLogger := logger.ComponentLogger("plugin")
	serviceRegistry := plugin.NewServiceRegistry(pluginLogger, am.PluginConfigProvider(v))
	if err := registry.InitializeAll(ctx, enabled, serviceRegistry); err != nil {
		return generator.Options{}, err
	}

	return generator.Options{
		Resource: pipeline.Resource{
			Name:       cfg.Resource.Name,
			ModulePath: cfg.Resource.ModulePath,
		},
		Directories: pipeline.Directories{
			Base:          cfg.Output.Base,
			Src:           cfg.SrcDir(),
			MessageBroker: cfg.Output.MessageBroker,
		},
		Services:  services,
		Port:      cfg.Output.Port,
		GoVersion: cfg.Output.GoVersion,
		Registry:  registry,
		Plugins:   enabled,
		Logger:    logger.ComponentLogger("generator"),
	}, nil
}
