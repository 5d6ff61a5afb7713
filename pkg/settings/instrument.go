package settings

import (
	"context"
	"net/http"
	"time"

	"github.com/carpi/carpi-settings/internal/metrics"
)

// Operation names reported to a Recorder
const (
	OpRead  = "read"
	OpWrite = "write"
	OpSave  = "save"
)

// Recorder receives one event per store operation
type Recorder interface {
	RecordLookup(ctx context.Context, backend string, hit bool)
	RecordOperation(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// NewMetrics builds an OpenTelemetry-backed Recorder exported in Prometheus
// format, and the HTTP handler serving it.
func NewMetrics(serviceName string) (Recorder, http.Handler, error) {
	m, handler, err := metrics.Setup(serviceName)
	if err != nil {
		return nil, nil, err
	}
	return m, handler, nil
}

// InstrumentedStore wraps any ConfigStore and reports each operation to a Recorder.
// Every read is delegated unchanged so backend-native coercion and tracing are
// kept. Hits and misses are only known to Lookup and are recorded there.
type InstrumentedStore struct {
	store    ConfigStore
	backend  string
	recorder Recorder
}

var _ ConfigStore = (*InstrumentedStore)(nil)

// Instrument wraps store with rec. The backend name labels every event.
func Instrument(store ConfigStore, backend Backend, rec Recorder) *InstrumentedStore {
	return &InstrumentedStore{store: store, backend: string(backend), recorder: rec}
}

// Unwrap returns the wrapped store
func (s *InstrumentedStore) Unwrap() ConfigStore {
	return s.store
}

func (s *InstrumentedStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := s.store.Lookup(ctx, key)
	s.recorder.RecordOperation(ctx, s.backend, OpRead, time.Since(start), err)
	if err == nil {
		s.recorder.RecordLookup(ctx, s.backend, ok)
	}
	return v, ok, err
}

func (s *InstrumentedStore) ReadValue(ctx context.Context, key string, def string) (string, error) {
	start := time.Now()
	v, err := s.store.ReadValue(ctx, key, def)
	s.recorder.RecordOperation(ctx, s.backend, OpRead, time.Since(start), err)
	return v, err
}

func (s *InstrumentedStore) ReadIntValue(ctx context.Context, key string, def int) (int, error) {
	start := time.Now()
	v, err := s.store.ReadIntValue(ctx, key, def)
	s.recorder.RecordOperation(ctx, s.backend, OpRead, time.Since(start), err)
	return v, err
}

func (s *InstrumentedStore) ReadFloatValue(ctx context.Context, key string, def float64) (float64, error) {
	start := time.Now()
	v, err := s.store.ReadFloatValue(ctx, key, def)
	s.recorder.RecordOperation(ctx, s.backend, OpRead, time.Since(start), err)
	return v, err
}

func (s *InstrumentedStore) ReadBoolValue(ctx context.Context, key string, def bool) (bool, error) {
	start := time.Now()
	v, err := s.store.ReadBoolValue(ctx, key, def)
	s.recorder.RecordOperation(ctx, s.backend, OpRead, time.Since(start), err)
	return v, err
}

func (s *InstrumentedStore) WriteValue(ctx context.Context, key string, value any) error {
	start := time.Now()
	err := s.store.WriteValue(ctx, key, value)
	s.recorder.RecordOperation(ctx, s.backend, OpWrite, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) SaveConfig(ctx context.Context) error {
	start := time.Now()
	err := s.store.SaveConfig(ctx)
	s.recorder.RecordOperation(ctx, s.backend, OpSave, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.store.Close()
}
