package settings

import "context"

// Unimplemented can be embedded in a store to satisfy ConfigStore before every
// operation exists. Each method returns ErrNotImplemented.
type Unimplemented struct{}

var _ ConfigStore = Unimplemented{}

func (Unimplemented) Lookup(ctx context.Context, key string) (string, bool, error) {
	return "", false, ErrNotImplemented
}

func (Unimplemented) ReadValue(ctx context.Context, key string, def string) (string, error) {
	return "", ErrNotImplemented
}

func (Unimplemented) ReadIntValue(ctx context.Context, key string, def int) (int, error) {
	return 0, ErrNotImplemented
}

func (Unimplemented) ReadFloatValue(ctx context.Context, key string, def float64) (float64, error) {
	return 0, ErrNotImplemented
}

func (Unimplemented) ReadBoolValue(ctx context.Context, key string, def bool) (bool, error) {
	return false, ErrNotImplemented
}

func (Unimplemented) WriteValue(ctx context.Context, key string, value any) error {
	return ErrNotImplemented
}

func (Unimplemented) SaveConfig(ctx context.Context) error {
	return ErrNotImplemented
}

func (Unimplemented) Close() error {
	return nil
}
