package settings_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carpi/carpi-settings/internal/metrics"
	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/carpi/carpi-settings/pkg/settings/memory"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type event struct {
	backend string
	op      string
	err     error
}

type fakeRecorder struct {
	mu     sync.Mutex
	ops    []event
	hits   int
	misses int
}

func (r *fakeRecorder) RecordLookup(_ context.Context, _ string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *fakeRecorder) RecordOperation(_ context.Context, backend, op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, event{backend: backend, op: op, err: err})
}

func (r *fakeRecorder) opNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ops))
	for i, e := range r.ops {
		out[i] = e.op
	}
	return out
}

func TestInstrumentRecordsOperations(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	store := settings.Instrument(memory.New(), settings.BackendMemory, rec)

	require.NoError(t, store.WriteValue(ctx, "gps.port", 2947))

	v, err := store.ReadValue(ctx, "gps.port", "")
	require.NoError(t, err)
	assert.Equal(t, "2947", v)

	v, err = store.ReadValue(ctx, "gps.device", "/dev/ttyUSB0")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", v)

	n, err := store.ReadIntValue(ctx, "gps.port", 0)
	require.NoError(t, err)
	assert.Equal(t, 2947, n)

	_, ok, err := store.Lookup(ctx, "gps.port")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = store.Lookup(ctx, "gps.baud")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveConfig(ctx))

	assert.Equal(t, []string{
		settings.OpWrite,
		settings.OpRead,
		settings.OpRead,
		settings.OpRead,
		settings.OpRead,
		settings.OpRead,
		settings.OpSave,
	}, rec.opNames())
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	for _, e := range rec.ops {
		assert.Equal(t, "memory", e.backend)
		assert.NoError(t, e.err)
	}
}

func TestInstrumentKeepsBackendTrace(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	inner := memory.New(settings.WithLogger(zap.New(core).Sugar()))
	store := settings.Instrument(inner, settings.BackendMemory, &fakeRecorder{})

	_, err := store.ReadValue(ctx, "gps.device", "")
	require.NoError(t, err)

	reads := logs.FilterMessage("Reading value").All()
	require.Len(t, reads, 1)
	assert.Equal(t, "MemoryStore", reads[0].LoggerName)
	assert.Equal(t, "gps.device", reads[0].ContextMap()["key"])
}

func TestInstrumentRecordsErrors(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	store := settings.Instrument(memory.New(), settings.BackendMemory, rec)

	require.NoError(t, store.WriteValue(ctx, "gps.port", "not-a-number"))
	_, err := store.ReadIntValue(ctx, "gps.port", 0)
	assert.ErrorIs(t, err, settings.ErrInvalidValue)

	require.Len(t, rec.ops, 2)
	assert.True(t, errors.Is(rec.ops[1].err, settings.ErrInvalidValue))
}

func TestInstrumentUnwrap(t *testing.T) {
	inner := memory.New()
	store := settings.Instrument(inner, settings.BackendMemory, &fakeRecorder{})
	assert.Same(t, inner, store.Unwrap())
}

func TestOpenWithRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	store, err := settings.Open(settings.Config{Backend: settings.BackendMemory, Recorder: rec})
	require.NoError(t, err)
	defer store.Close()

	require.IsType(t, &settings.InstrumentedStore{}, store)
	_, err = store.ReadBoolValue(context.Background(), "display.night", false)
	require.NoError(t, err)
	assert.Equal(t, []string{settings.OpRead}, rec.opNames())
}

func TestInstrumentPrometheusExport(t *testing.T) {
	ctx := context.Background()
	reg := promclient.NewRegistry()
	m, handler, err := metrics.SetupWithRegistry("carpi-settings-test", reg)
	require.NoError(t, err)
	require.NotNil(t, handler)

	store := settings.Instrument(memory.New(), settings.BackendMemory, m)
	require.NoError(t, store.WriteValue(ctx, "gps.port", 2947))
	_, err = store.ReadValue(ctx, "gps.port", "")
	require.NoError(t, err)
	_, _, err = store.Lookup(ctx, "gps.port")
	require.NoError(t, err)
	_, _, err = store.Lookup(ctx, "gps.device")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "settings_") {
			names = append(names, f.GetName())
		}
	}
	assert.NotEmpty(t, names)

	hasPrefix := func(prefix string) bool {
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				return true
			}
		}
		return false
	}
	assert.True(t, hasPrefix("settings_operations"), "names: %v", names)
	assert.True(t, hasPrefix("settings_lookup_hits"), "names: %v", names)
	assert.True(t, hasPrefix("settings_lookup_misses"), "names: %v", names)
	assert.True(t, hasPrefix("settings_operation_duration_seconds"), "names: %v", names)
}
