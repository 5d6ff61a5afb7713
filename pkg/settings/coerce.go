package settings

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// TrueValue is the only stored string the generic boolean coercion reads as true.
const TrueValue = "1"

// ReadValue looks key up in src and returns def when it is absent.
func ReadValue(ctx context.Context, src Source, key string, def string) (string, error) {
	v, ok, err := src.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// ReadInt reads key from src as a base-10 integer.
func ReadInt(ctx context.Context, src Source, key string, def int) (int, error) {
	v, ok, err := src.Lookup(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, InvalidValue(key, v, "int", err)
	}
	return n, nil
}

// ReadFloat reads key from src as a 64-bit float.
func ReadFloat(ctx context.Context, src Source, key string, def float64) (float64, error) {
	v, ok, err := src.Lookup(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, InvalidValue(key, v, "float", err)
	}
	return f, nil
}

// ReadBool reads key from src. Only the literal "1" is true; any other
// present value is false.
func ReadBool(ctx context.Context, src Source, key string, def bool) (bool, error) {
	v, ok, err := src.Lookup(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	return v == TrueValue, nil
}

// InvalidValue wraps a parse failure for key so that it matches ErrInvalidValue.
func InvalidValue(key, value, kind string, err error) error {
	return fmt.Errorf("%w: %s=%q is not a valid %s: %w", ErrInvalidValue, key, value, kind, err)
}

// EncodeValue returns the stored form of value for key. A nil value, or a
// nil pointer, has no stored form and is rejected with ErrInvalidValue.
func EncodeValue(key string, value any) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%w: %s: cannot write nil", ErrInvalidValue, key)
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", fmt.Errorf("%w: %s: cannot write nil %T", ErrInvalidValue, key, value)
	}
	return Stringify(value), nil
}

// Stringify converts a value to the string form stored by every backend.
// Booleans use the "1"/"0" encoding so they read back through ReadBool.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return TrueValue
		}
		return "0"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprint(value)
}
