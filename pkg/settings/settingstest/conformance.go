// Package settingstest provides conformance tests for settings.ConfigStore implementations
package settingstest

import (
	"context"
	"errors"
	"testing"

	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Section prefixes every key the suite touches. INI-backed factories must make
// sure this section exists (or allow sections to be created on write).
const Section = "conformance"

// Key returns the composite key the suite uses for name
func Key(name string) string {
	return Section + "." + name
}

// StoreFactory creates a fresh ConfigStore instance for testing
type StoreFactory func(t *testing.T) settings.ConfigStore

// RunConformanceTests runs all conformance tests against a ConfigStore implementation
func RunConformanceTests(t *testing.T, factory StoreFactory) {
	t.Run("RoundTrip", func(t *testing.T) {
		run(t, factory, []namedTest{
			{"String", testRoundTripString},
			{"Int", testRoundTripInt},
			{"Float", testRoundTripFloat},
			{"Bool", testRoundTripBool},
			{"LastWriteWins", testLastWriteWins},
		})
	})
	t.Run("Defaults", func(t *testing.T) {
		run(t, factory, []namedTest{
			{"Lookup", testLookupAbsent},
			{"Value", testDefaultValue},
			{"Int", testDefaultInt},
			{"Float", testDefaultFloat},
			{"Bool", testDefaultBool},
		})
	})
	t.Run("Coercion", func(t *testing.T) {
		run(t, factory, []namedTest{
			{"InvalidInt", testInvalidInt},
			{"InvalidFloat", testInvalidFloat},
			{"BoolLiterals", testBoolLiterals},
			{"NilRejected", testNilRejected},
		})
	})
	t.Run("Save", func(t *testing.T) {
		run(t, factory, []namedTest{
			{"SaveConfig", testSaveConfig},
		})
	})
}

type namedTest struct {
	name string
	test func(t *testing.T, store settings.ConfigStore)
}

func run(t *testing.T, factory StoreFactory, tests []namedTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()
			tt.test(t, store)
		})
	}
}

func testRoundTripString(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("greeting")

	require.NoError(t, store.WriteValue(ctx, key, "hello world"))

	v, err := store.ReadValue(ctx, key, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "hello world", v)

	v, ok, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello world", v)
}

func testRoundTripInt(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("port")

	require.NoError(t, store.WriteValue(ctx, key, 2947))

	raw, err := store.ReadValue(ctx, key, "")
	require.NoError(t, err)
	assert.Equal(t, "2947", raw)

	n, err := store.ReadIntValue(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, 2947, n)
}

func testRoundTripFloat(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("ratio")

	require.NoError(t, store.WriteValue(ctx, key, 2.5))

	raw, err := store.ReadValue(ctx, key, "")
	require.NoError(t, err)
	assert.Equal(t, "2.5", raw)

	f, err := store.ReadFloatValue(ctx, key, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 1e-9)
}

func testRoundTripBool(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	on, off := Key("enabled"), Key("disabled")

	require.NoError(t, store.WriteValue(ctx, on, true))
	require.NoError(t, store.WriteValue(ctx, off, false))

	b, err := store.ReadBoolValue(ctx, on, false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = store.ReadBoolValue(ctx, off, true)
	require.NoError(t, err)
	assert.False(t, b)
}

func testLastWriteWins(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("mode")

	require.NoError(t, store.WriteValue(ctx, key, "first"))
	require.NoError(t, store.WriteValue(ctx, key, "second"))

	v, err := store.ReadValue(ctx, key, "")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func testLookupAbsent(t *testing.T, store settings.ConfigStore) {
	_, ok, err := store.Lookup(context.Background(), Key("absent"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDefaultValue(t *testing.T, store settings.ConfigStore) {
	v, err := store.ReadValue(context.Background(), Key("absent"), "D")
	require.NoError(t, err)
	assert.Equal(t, "D", v)
}

func testDefaultInt(t *testing.T, store settings.ConfigStore) {
	n, err := store.ReadIntValue(context.Background(), Key("absent"), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func testDefaultFloat(t *testing.T, store settings.ConfigStore) {
	f, err := store.ReadFloatValue(context.Background(), Key("absent"), 1.25)
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)
}

func testDefaultBool(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()

	b, err := store.ReadBoolValue(ctx, Key("absent"), true)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = store.ReadBoolValue(ctx, Key("absent"), false)
	require.NoError(t, err)
	assert.False(t, b)
}

func testInvalidInt(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("not-a-number")

	require.NoError(t, store.WriteValue(ctx, key, "abc"))

	_, err := store.ReadIntValue(ctx, key, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, settings.ErrInvalidValue), "expected ErrInvalidValue, got %v", err)
}

func testInvalidFloat(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("not-a-float")

	require.NoError(t, store.WriteValue(ctx, key, "one point five"))

	_, err := store.ReadFloatValue(ctx, key, 1.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, settings.ErrInvalidValue), "expected ErrInvalidValue, got %v", err)
}

// testBoolLiterals covers the spellings every backend agrees on.
func testBoolLiterals(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()

	require.NoError(t, store.WriteValue(ctx, Key("one"), "1"))
	require.NoError(t, store.WriteValue(ctx, Key("zero"), "0"))

	b, err := store.ReadBoolValue(ctx, Key("one"), false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = store.ReadBoolValue(ctx, Key("zero"), true)
	require.NoError(t, err)
	assert.False(t, b)
}

func testNilRejected(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()
	key := Key("nothing")

	err := store.WriteValue(ctx, key, nil)
	assert.ErrorIs(t, err, settings.ErrInvalidValue)

	var p *int
	err = store.WriteValue(ctx, key, p)
	assert.ErrorIs(t, err, settings.ErrInvalidValue)

	_, ok, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "a rejected write must not create the key")
}

func testSaveConfig(t *testing.T, store settings.ConfigStore) {
	ctx := context.Background()

	require.NoError(t, store.WriteValue(ctx, Key("saved"), "yes"))
	require.NoError(t, store.SaveConfig(ctx))

	v, err := store.ReadValue(ctx, Key("saved"), "")
	require.NoError(t, err)
	assert.Equal(t, "yes", v)
}
