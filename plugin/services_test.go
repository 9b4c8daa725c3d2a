package plugin

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// Service Registry Tests
// =============================================================================

func TestNewServiceRegistry(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	registry := NewServiceRegistry(logger, nil)
	assert.NotNil(t, registry)

	// Verify it implements ServiceRegistry interface
	var _ ServiceRegistry = registry
}

func TestDefaultServiceRegistry_Logger(t *testing.T) {
	registry := NewServiceRegistry(zaptest.NewLogger(t).Sugar(), nil)

	pluginLogger := registry.Logger("kafka")
	require.NotNil(t, pluginLogger)
	pluginLogger.Info("test message")

	// nil logger falls back to a no-op logger
	assert.NotNil(t, NewServiceRegistry(nil, nil).Logger("kafka"))
}

func TestDefaultServiceRegistry_Config(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		registry := NewServiceRegistry(nil, nil)
		assert.Nil(t, registry.Config("kafka"))
	})

	t.Run("viper backed provider", func(t *testing.T) {
		v := viper.New()
		v.Set("kafka_go_version", "v0.4.47")
		v.Set("brokers", []string{"broker-1:9092", "broker-2:9092"})

		var asked string
		provider := ConfigProviderFunc(func(name string) Config {
			asked = name
			return v
		})

		cfg := NewServiceRegistry(nil, provider).Config("kafka")
		require.NotNil(t, cfg)
		assert.Equal(t, "kafka", asked)
		assert.Equal(t, "v0.4.47", cfg.GetString("kafka_go_version"))
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.GetStringSlice("brokers"))
		assert.True(t, cfg.IsSet("brokers"))
		assert.False(t, cfg.IsSet("missing"))
	})
}
