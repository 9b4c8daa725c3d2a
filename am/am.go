package am

// Config is the dsg configuration ("I am"), read from dsg.toml
type Config struct {
	Resource ResourceConfig `mapstructure:"resource" toml:"resource" yaml:"resource" json:"resource"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Topics   TopicsConfig   `mapstructure:"topics" toml:"topics" yaml:"topics" json:"topics"`
	Plugin   PluginConfig   `mapstructure:"plugin" toml:"plugin" yaml:"plugin" json:"plugin"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`

	// File is the config file the values were read from, empty when only
	// defaults and environment variables applied
	File string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// ResourceConfig describes the service being generated
type ResourceConfig struct {
	Name       string `mapstructure:"name" toml:"name" yaml:"name" json:"name" validate:"required"`
	ModulePath string `mapstructure:"module_path" toml:"module_path" yaml:"module_path" json:"module_path" validate:"required"`
}

// OutputConfig configures where and how files are generated. Directories are
// slash-separated and relative to Dir.
type OutputConfig struct {
	Dir           string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	Base          string `mapstructure:"base" toml:"base" yaml:"base" json:"base"`
	Src           string `mapstructure:"src" toml:"src,omitempty" yaml:"src,omitempty" json:"src,omitempty"`
	MessageBroker string `mapstructure:"message_broker" toml:"message_broker,omitempty" yaml:"message_broker,omitempty" json:"message_broker,omitempty"`
	Port          int    `mapstructure:"port" toml:"port" yaml:"port" json:"port" validate:"gte=1,lte=65535"`
	GoVersion     string `mapstructure:"go_version" toml:"go_version" yaml:"go_version" json:"go_version" validate:"required"`
}

// TopicsConfig lists the service topics: a topic registry file, inline
// services, or both. File services come first.
type TopicsConfig struct {
	File     string          `mapstructure:"file" toml:"file,omitempty" yaml:"file,omitempty" json:"file,omitempty"`
	Services []ServiceConfig `mapstructure:"service" toml:"service,omitempty" yaml:"service,omitempty" json:"service,omitempty" validate:"dive"`
}

// ServiceConfig is one inline service of [[topics.service]]
type ServiceConfig struct {
	Name     string          `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
	Patterns []PatternConfig `mapstructure:"pattern" toml:"pattern" yaml:"pattern" json:"pattern" validate:"dive"`
}

// PatternConfig is a topic the service sends or receives on
type PatternConfig struct {
	ID        string `mapstructure:"id" toml:"id" yaml:"id" json:"id" validate:"required"`
	Name      string `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
	Direction string `mapstructure:"direction" toml:"direction" yaml:"direction" json:"direction" validate:"required"`
}

// PluginConfig selects the generator plugins. Settings of a plugin live in
// its own [plugin.<name>] table.
type PluginConfig struct {
	Enabled []string `mapstructure:"enabled" toml:"enabled" yaml:"enabled" json:"enabled" validate:"unique,dive,required"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity" validate:"gte=0"`
}

// ConfigFileName is the project config file searched from the working
// directory upwards
const ConfigFileName = "dsg.toml"

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
