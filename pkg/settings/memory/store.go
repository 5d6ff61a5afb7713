package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/carpi/carpi-settings/pkg/settings"
	"go.uber.org/zap"
)

// Store is an in-memory implementation of settings.ConfigStore.
// Nothing it holds survives the process.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	log    *zap.SugaredLogger
}

var _ settings.ConfigStore = (*Store)(nil)

// New creates an empty in-memory store
func New(opts ...settings.Option) *Store {
	o := settings.ApplyOptions(opts...)
	s := &Store{
		values: make(map[string]string),
		log:    o.NamedLogger("MemoryStore"),
	}
	s.log.Info("New in-memory configuration setup")
	return s
}

func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) ReadValue(ctx context.Context, key string, def string) (string, error) {
	s.log.Debugw("Reading value", "key", key)
	return settings.ReadValue(ctx, s, key, def)
}

func (s *Store) ReadIntValue(ctx context.Context, key string, def int) (int, error) {
	s.log.Debugw("Reading value as int", "key", key)
	return settings.ReadInt(ctx, s, key, def)
}

func (s *Store) ReadFloatValue(ctx context.Context, key string, def float64) (float64, error) {
	s.log.Debugw("Reading value as float", "key", key)
	return settings.ReadFloat(ctx, s, key, def)
}

func (s *Store) ReadBoolValue(ctx context.Context, key string, def bool) (bool, error) {
	s.log.Debugw("Reading value as bool", "key", key)
	return settings.ReadBool(ctx, s, key, def)
}

// WriteValue stores the stringified value; the last write wins.
func (s *Store) WriteValue(ctx context.Context, key string, value any) error {
	s.log.Debugw("Writing value", "key", key)
	v, err := settings.EncodeValue(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
	return nil
}

// SaveConfig is a no-op: in-memory configurations cannot be persisted.
func (s *Store) SaveConfig(ctx context.Context) error {
	s.log.Warn("In-memory configurations cannot be saved, this is a no-op")
	return nil
}

// Keys returns the stored keys in sorted order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close drops all stored values
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
