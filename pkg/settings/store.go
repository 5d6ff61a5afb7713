package settings

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by operations a store does not provide
var ErrNotImplemented = errors.New("not implemented")

// ErrInvalidValue is returned when a stored value cannot be coerced to the requested type
var ErrInvalidValue = errors.New("invalid value")

// ErrMalformedKey is returned when a key does not have the structure a backend requires
var ErrMalformedKey = errors.New("malformed key")

// ErrSectionNotFound is returned when writing into an INI section that does not exist
var ErrSectionNotFound = errors.New("section not found")

// ErrBackendUnavailable is returned when the backend storage is unreachable
var ErrBackendUnavailable = errors.New("backend unavailable")

// Source is the raw lookup every backend provides. ok is false when the key
// is absent; absence is never reported as an error.
type Source interface {
	Lookup(ctx context.Context, key string) (value string, ok bool, err error)
}

// ConfigStore defines the typed read/write/save contract shared by all backends
type ConfigStore interface {
	Source

	// ReadValue returns the raw stored string, or def when the key is absent.
	ReadValue(ctx context.Context, key string, def string) (string, error)

	// Typed reads return def unconverted when the key is absent and an
	// ErrInvalidValue error when the stored value does not parse.
	ReadIntValue(ctx context.Context, key string, def int) (int, error)
	ReadFloatValue(ctx context.Context, key string, def float64) (float64, error)
	ReadBoolValue(ctx context.Context, key string, def bool) (bool, error)

	// WriteValue stores the string representation of value.
	WriteValue(ctx context.Context, key string, value any) error

	// SaveConfig flushes pending state to durable storage. Backends without
	// durable storage treat it as a no-op.
	SaveConfig(ctx context.Context) error

	// Close releases the backing resource.
	Close() error
}
