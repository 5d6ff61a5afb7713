package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/carpi/carpi-settings/pkg/settings/ini"
	"github.com/carpi/carpi-settings/pkg/settings/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := settings.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, settings.BackendMemory, cfg.Backend)
	assert.NotNil(t, cfg.Logger)
	assert.Nil(t, cfg.Recorder)
	assert.Equal(t, "127.0.0.1", cfg.RedisHost)
	assert.Equal(t, 6379, cfg.RedisPort)
}

func TestConfigFromEnvKeepsOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARPI_SETTINGS_LOGGER_NAME", "from-env")

	logger := zap.NewNop().Sugar()
	cfg, err := settings.ConfigFromEnv(settings.WithLogger(logger), settings.WithLoggerName("override"))
	require.NoError(t, err)

	assert.Same(t, logger, cfg.Logger)
	assert.Equal(t, "override", cfg.LoggerName)

	cfg, err = settings.ConfigFromEnv(settings.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LoggerName)
}

func TestOpenFromEnvMemory(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARPI_SETTINGS_BACKEND", "memory")

	store, err := settings.OpenFromEnv(settings.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &memory.Store{}, store)
}

func TestOpenFromEnvIni(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "car.ini")
	require.NoError(t, os.WriteFile(path, []byte("[obd]\nbaud = 38400\n"), 0o644))
	t.Setenv("CARPI_SETTINGS_BACKEND", "ini")
	t.Setenv("CARPI_SETTINGS_INI_FILE", path)
	t.Setenv("CARPI_SETTINGS_INI_CREATE_SECTIONS", "true")

	store, err := settings.OpenFromEnv(settings.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	defer store.Close()
	require.IsType(t, &ini.Store{}, store)

	ctx := context.Background()
	baud, err := store.ReadIntValue(ctx, "obd.baud", 0)
	require.NoError(t, err)
	assert.Equal(t, 38400, baud)

	assert.NoError(t, store.WriteValue(ctx, "gps.port", 2947))
}

func TestOpenFromEnvInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARPI_SETTINGS_BACKEND", "etcd")

	_, err := settings.OpenFromEnv()
	assert.Error(t, err)

	t.Setenv("CARPI_SETTINGS_BACKEND", "ini")
	_, err = settings.OpenFromEnv()
	assert.Error(t, err)
}

func TestConfigFromEnvWarnsOnMemoryInProd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARPI_SETTINGS_BACKEND", "memory")

	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core).Sugar()

	t.Setenv("CARPI_ENV", "dev")
	_, err := settings.ConfigFromEnv(settings.WithLogger(logger))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	t.Setenv("CARPI_ENV", "prod")
	_, err = settings.ConfigFromEnv(settings.WithLogger(logger))
	require.NoError(t, err)

	warnings := logs.FilterMessageSnippet("in-memory backend in production").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "prod", warnings[0].ContextMap()["env"])
}
