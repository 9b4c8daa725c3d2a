package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/topic"
)

const projectConfig = `
[resource]
name = "Order Service"
module_path = "example.com/orders"

[output]
dir = "out"
port = 8080

[topics]
file = "topics.toml"

[[topics.service]]
name = "billing"

[[topics.service.pattern]]
id = "t9"
name = "InvoicePaid"
direction = "Receive"

[plugin]
enabled = ["kafka"]

[plugin.kafka]
brokers = ["kafka-1:9092", "kafka-2:9092"]
enable_ssl = true
`

const topicRegistry = `
[[service]]
name = "orders"

[[service.pattern]]
id = "t1"
name = "OrderCreated"
direction = "receive"
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(projectConfig), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "topics.toml"), []byte(topicRegistry), 0644))
	return filepath.Join(dir, ConfigFileName)
}

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without a config file
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, DefaultBaseDir, cfg.Output.Base)
	assert.Equal(t, DefaultPort, cfg.Output.Port)
	assert.Equal(t, DefaultGoVersion, cfg.Output.GoVersion)
	assert.Equal(t, []string{"kafka"}, cfg.Plugin.Enabled)
	assert.Equal(t, "server/internal", cfg.SrcDir())
	assert.Empty(t, cfg.File)
}

func TestLoadFromFile(t *testing.T) {
	configPath := writeProject(t)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Order Service", cfg.Resource.Name)
	assert.Equal(t, 8080, cfg.Output.Port)
	assert.Equal(t, DefaultBaseDir, cfg.Output.Base, "defaults fill unset keys")
	assert.Equal(t, configPath, cfg.File)
	assert.Equal(t, filepath.Join(filepath.Dir(configPath), "out"), cfg.OutputDir())

	services, err := cfg.ServiceTopics()
	require.NoError(t, err)
	assert.Equal(t, []topic.Service{
		{Name: "orders", Patterns: []topic.Pattern{{ID: "t1", Name: "OrderCreated", Direction: topic.Receive}}},
		{Name: "billing", Patterns: []topic.Pattern{{ID: "t9", Name: "InvoicePaid", Direction: topic.Receive}}},
	}, services)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), ConfigFileName))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "dsg am init")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DSG_RESOURCE_MODULE_PATH", "example.com/env")
	t.Setenv("DSG_OUTPUT_PORT", "9000")

	cfg, err := LoadFromFile(writeProject(t))
	require.NoError(t, err)
	assert.Equal(t, "example.com/env", cfg.Resource.ModulePath)
	assert.Equal(t, 9000, cfg.Output.Port)
}

func TestUseFile(t *testing.T) {
	configPath := writeProject(t)
	UseFile(configPath)
	defer Reset()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, configPath, cfg.File)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "Load caches the config")
}

func TestPluginConfigProvider(t *testing.T) {
	v, err := readFile(writeProject(t))
	require.NoError(t, err)

	provider := PluginConfigProvider(v)

	kafka := provider.GetPluginConfig("kafka")
	require.NotNil(t, kafka)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, kafka.GetStringSlice("brokers"))
	assert.True(t, kafka.GetBool("enable_ssl"))

	assert.Nil(t, provider.GetPluginConfig("rabbitmq"))
	assert.Nil(t, PluginConfigProvider(nil).GetPluginConfig("kafka"))
}

func TestServiceTopicsBadDirection(t *testing.T) {
	cfg := &Config{Topics: TopicsConfig{Services: []ServiceConfig{{
		Name:     "orders",
		Patterns: []PatternConfig{{ID: "t1", Name: "A", Direction: "sideways"}},
	}}}}

	_, err := cfg.ServiceTopics()
	assert.Error(t, err)
}

func TestFindProjectConfig(t *testing.T) {
	configPath := writeProject(t)
	nested := filepath.Join(filepath.Dir(configPath), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	found := findProjectConfig()
	// The temp dir may be reached through a symlink
	want, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
