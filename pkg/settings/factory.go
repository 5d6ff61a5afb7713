package settings

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupportedBackend is returned by Open for a backend name it does not know
var ErrUnsupportedBackend = errors.New("unsupported backend")

// ErrBackendNotAvailable is returned by Open for a known backend that was not built in
var ErrBackendNotAvailable = errors.New("backend not available")

// Backend represents the storage backend type
type Backend string

const (
	// BackendMemory uses the in-memory store
	BackendMemory Backend = "memory"
	// BackendIni uses an INI file
	BackendIni Backend = "ini"
	// BackendRedis uses Redis as the backend
	BackendRedis Backend = "redis"
)

// Config holds configuration for creating a ConfigStore through Open
type Config struct {
	// Backend specifies which storage backend to use
	Backend Backend

	// IniFile is the path of the INI file (required when Backend is "ini")
	IniFile string

	// IniCreateSections lets WriteValue create sections that do not exist yet.
	// Default: false, writes into a missing section fail.
	IniCreateSections bool

	// RedisURL is the connection string for Redis. When set it takes
	// precedence over the discrete host/port/db/password fields.
	// Format: redis://localhost:6379/0 or redis://:password@localhost:6379/1
	RedisURL string

	// Discrete Redis connection parameters, used when RedisURL is empty.
	// Zero values fall back to 127.0.0.1:6379, database 0, no password.
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// LoggerName overrides the sink name derived by the backend
	LoggerName string

	// Logger receives trace messages. If nil, nothing is logged.
	Logger *zap.SugaredLogger

	// Recorder, when set, wraps the store with Instrument
	Recorder Recorder
}

// Options returns the logger options carried by cfg
func (cfg Config) Options() []Option {
	return []Option{WithLogger(cfg.Logger), WithLoggerName(cfg.LoggerName)}
}

// StoreFactory defines a function that creates a ConfigStore instance
type StoreFactory func(cfg Config) (ConfigStore, error)

var (
	factoriesMu sync.RWMutex
	// factories holds registered store factories
	factories = make(map[Backend]StoreFactory)
)

// RegisterBackend registers a store factory for a given backend
func RegisterBackend(backend Backend, factory StoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[backend] = factory
}

// Available reports whether backend has been registered, i.e. its package is
// linked into the binary and was not excluded by a build tag.
func Available(backend Backend) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[backend]
	return ok
}

// Backends returns the registered backends in name order
func Backends() []Backend {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make([]Backend, 0, len(factories))
	for b := range factories {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Open creates a new ConfigStore based on the provided configuration
func Open(cfg Config) (ConfigStore, error) {
	switch cfg.Backend {
	case BackendMemory, BackendIni, BackendRedis:
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s, %s)",
			ErrUnsupportedBackend, cfg.Backend, BackendMemory, BackendIni, BackendRedis)
	}

	factoriesMu.RLock()
	factory, exists := factories[cfg.Backend]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s backend not registered", ErrBackendNotAvailable, cfg.Backend)
	}

	store, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	if cfg.Recorder != nil {
		return Instrument(store, cfg.Backend, cfg.Recorder), nil
	}
	return store, nil
}
