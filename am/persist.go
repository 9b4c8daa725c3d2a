package am

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/dsg/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		fmt.Printf("⚠️  Failed to delete old backup %s: %v\n", back3, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// Starter returns the configuration written by 'dsg am init': defaults, the
// Kafka plugin and one example service
func Starter(name, modulePath string) *Config {
	return &Config{
		Resource: ResourceConfig{Name: name, ModulePath: modulePath},
		Output: OutputConfig{
			Dir:       ".",
			Base:      DefaultBaseDir,
			Port:      DefaultPort,
			GoVersion: DefaultGoVersion,
		},
		Topics: TopicsConfig{
			Services: []ServiceConfig{{
				Name: "orders",
				Patterns: []PatternConfig{
					{ID: "order-created", Name: "OrderCreated", Direction: "receive"},
					{ID: "order-shipped", Name: "OrderShipped", Direction: "send"},
				},
			}},
		},
		Plugin: PluginConfig{Enabled: []string{"kafka"}},
	}
}

// Save writes config to configPath as TOML, keeping rotating backups of the
// previous file
func Save(configPath string, config *Config) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}

	return nil
}
