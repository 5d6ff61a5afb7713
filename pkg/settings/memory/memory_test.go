package memory

import (
	"context"
	"os"
	"testing"

	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/carpi/carpi-settings/pkg/settings/settingstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryStore(t *testing.T) {
	factory := func(t *testing.T) settings.ConfigStore {
		return New()
	}

	settingstest.RunConformanceTests(t, factory)
}

func TestMemoryStoreBoolOnlyLiteralOne(t *testing.T) {
	ctx := context.Background()
	store := New()

	for _, v := range []string{"true", "yes", "on", "True", " 1"} {
		require.NoError(t, store.WriteValue(ctx, "flag", v))
		b, err := store.ReadBoolValue(ctx, "flag", true)
		require.NoError(t, err)
		assert.False(t, b, "value %q must not read as true", v)
	}
}

func TestMemoryStoreStringifiesOnWrite(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.WriteValue(ctx, "count", int64(12)))
	require.NoError(t, store.WriteValue(ctx, "ratio", float32(0.5)))
	require.NoError(t, store.WriteValue(ctx, "on", true))

	for key, want := range map[string]string{"count": "12", "ratio": "0.5", "on": "1"} {
		got, ok, err := store.Lookup(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, []string{"count", "on", "ratio"}, store.Keys())
}

func TestMemoryStoreSaveConfigLeavesNoArtifact(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	core, logs := observer.New(zap.WarnLevel)
	store := New(settings.WithLogger(zap.New(core).Sugar()))

	require.NoError(t, store.WriteValue(context.Background(), "k", "v"))
	require.NoError(t, store.SaveConfig(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "MemoryStore", logs.All()[0].LoggerName)
}

func TestMemoryStoreLoggerName(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	New(settings.WithLogger(zap.New(core).Sugar()), settings.WithLoggerName("car"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "car", logs.All()[0].LoggerName)
}

func TestMemoryStoreCloseClearsValues(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.WriteValue(ctx, "k", "v"))
	require.NoError(t, store.Close())

	v, err := store.ReadValue(ctx, "k", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", v)
}
