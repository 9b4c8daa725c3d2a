package plugin

import (
	"go.uber.org/zap"
)

// ServiceRegistry provides access to generator services for plugins.
type ServiceRegistry interface {
	// Logger returns a logger for this plugin
	Logger(name string) *zap.SugaredLogger

	// Config returns plugin-specific configuration
	Config(name string) Config
}

// Config provides access to plugin configuration
type Config interface {
	// GetString retrieves a string configuration value
	GetString(key string) string

	// GetInt retrieves an integer configuration value
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value
	GetStringSlice(key string) []string

	// IsSet reports whether a key has a value
	IsSet(key string) bool

	// Get retrieves a raw configuration value
	Get(key string) interface{}
}

// ConfigProvider provides configuration for plugins
type ConfigProvider interface {
	// GetPluginConfig returns configuration for a specific plugin
	GetPluginConfig(name string) Config
}

// ConfigProviderFunc adapts a function to ConfigProvider
type ConfigProviderFunc func(name string) Config

// GetPluginConfig calls f(name)
func (f ConfigProviderFunc) GetPluginConfig(name string) Config {
	return f(name)
}

// DefaultServiceRegistry is the standard implementation of ServiceRegistry
type DefaultServiceRegistry struct {
	logger *zap.SugaredLogger
	config ConfigProvider
}

// NewServiceRegistry creates a new service registry
func NewServiceRegistry(logger *zap.SugaredLogger, config ConfigProvider) ServiceRegistry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DefaultServiceRegistry{
		logger: logger,
		config: config,
	}
}

// Logger returns a logger for the specified plugin
func (r *DefaultServiceRegistry) Logger(name string) *zap.SugaredLogger {
	return r.logger.Named(name)
}

// Config returns plugin-specific configuration, nil when none is provided
func (r *DefaultServiceRegistry) Config(name string) Config {
	if r.config == nil {
		return nil
	}
	return r.config.GetPluginConfig(name)
}
