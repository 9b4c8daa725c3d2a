package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	starter := Starter("Order Service", "example.com/orders")

	require.NoError(t, Save(configPath, starter))

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())

	assert.Equal(t, starter.Resource, loaded.Resource)
	assert.Equal(t, starter.Output, loaded.Output)
	assert.Equal(t, starter.Topics, loaded.Topics)
	assert.Equal(t, starter.Plugin, loaded.Plugin)
}

func TestSaveRotatesBackups(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	for i := 0; i < 5; i++ {
		require.NoError(t, Save(configPath, Starter("Service", "example.com/s")))
	}

	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		_, err := os.Stat(configPath + suffix)
		assert.NoError(t, err, suffix)
	}
	_, err := os.Stat(configPath + ".back4")
	assert.True(t, os.IsNotExist(err))
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/p/dsg.toml.back1"))
	assert.True(t, isBackupFile("dsg.toml.back3"))
	assert.False(t, isBackupFile("/p/dsg.toml"))
	assert.False(t, isBackupFile("topics.toml"))
}
