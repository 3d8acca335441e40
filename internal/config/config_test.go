package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitDefaults(t *testing.T) {
	// No config file present: defaults apply.
	require.NoError(t, Init(t.TempDir(), zap.NewNop()))

	assert.Equal(t, "5050", Conf.Server.Port)
	assert.Equal(t, "mccb-db", Conf.Database.DBName)
	assert.Equal(t, "config/battery.yaml", Conf.Analytics.BatteryFile)
	assert.Equal(t, 5, Conf.Analytics.SnapshotInterval)
	assert.Equal(t, 10, Conf.Logging.MaxSize)
}

func TestInitFromFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))
	content := `
server:
  port: "9090"
analytics:
  snapshot_interval_minutes: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "config", "config.yaml"), []byte(content), 0644))

	require.NoError(t, Init(root, zap.NewNop()))
	assert.Equal(t, "9090", Conf.Server.Port)
	assert.Equal(t, 1, Conf.Analytics.SnapshotInterval)
	// Untouched sections keep their defaults.
	assert.Equal(t, "logs", Conf.Logging.Directory)
}

func TestInitEnvOverride(t *testing.T) {
	t.Setenv("MCCB_SERVER_PORT", "7070")
	require.NoError(t, Init(t.TempDir(), zap.NewNop()))
	assert.Equal(t, "7070", Conf.Server.Port)
}
