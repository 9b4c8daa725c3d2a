package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/dsg/errors"
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitFile  string
)

// Load reads the dsg configuration using Viper. The project config is the
// file given to UseFile, or else the first dsg.toml found from the working
// directory upwards. Without a config file, defaults and DSG_* environment
// variables apply.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// UseFile makes Load read path instead of searching for dsg.toml
func UseFile(path string) {
	Reset()
	explicitFile = path
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	config.File = v.ConfigFileUsed()
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, with defaults
// and environment variables applied
func LoadFromFile(configPath string) (*Config, error) {
	v, err := readFile(configPath)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	explicitFile = ""
}

// newViper returns a Viper instance with defaults and DSG_* environment
// variable binding
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DSG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)
	SetDefaults(v)
	return v
}

func readFile(configPath string) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", configPath),
			"run 'dsg am init' to create a starter "+ConfigFileName,
		)
	}
	return v, nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	configPath := explicitFile
	if configPath == "" {
		configPath = findProjectConfig()
	}

	var v *viper.Viper
	if configPath == "" {
		v = newViper()
	} else {
		var err error
		if v, err = readFile(configPath); err != nil {
			return nil, err
		}
	}

	viperInstance = v
	return v, nil
}

// findProjectConfig searches for dsg.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}
