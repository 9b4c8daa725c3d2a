package am

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultBaseDir   = "server"
	DefaultPort      = 3000
	DefaultGoVersion = "1.24"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.base", DefaultBaseDir)
	v.SetDefault("output.port", DefaultPort)
	v.SetDefault("output.go_version", DefaultGoVersion)

	v.SetDefault("plugin.enabled", []string{"kafka"})

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds settings without a default to their environment variables
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("resource.name", "DSG_RESOURCE_NAME")
	v.BindEnv("resource.module_path", "DSG_RESOURCE_MODULE_PATH")
	v.BindEnv("topics.file", "DSG_TOPICS_FILE")
}

// OutputDir returns the output root. A relative output.dir is taken
// relative to the config file.
func (c *Config) OutputDir() string {
	dir := c.Output.Dir
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) || c.File == "" {
		return dir
	}
	return filepath.Join(filepath.Dir(c.File), dir)
}

// SrcDir returns output.src, defaulting to <base>/internal
func (c *Config) SrcDir() string {
	if c.Output.Src != "" {
		return c.Output.Src
	}
	return path.Join(c.Output.Base, "internal")
}

// TopicsFile returns the resolved topic registry path, empty when unset
func (c *Config) TopicsFile() string {
	if c.Topics.File == "" || filepath.IsAbs(c.Topics.File) || c.File == "" {
		return c.Topics.File
	}
	return filepath.Join(filepath.Dir(c.File), c.Topics.File)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Resource: %s (%s), Output: %s, Plugins: %v}",
		c.Resource.Name, c.Resource.ModulePath, c.OutputDir(), c.Plugin.Enabled)
}
