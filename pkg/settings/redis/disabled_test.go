//go:build noredis

package redis

import (
	"errors"
	"testing"

	"github.com/carpi/carpi-settings/pkg/settings"
)

func TestNotRegistered(t *testing.T) {
	if Enabled {
		t.Fatal("Enabled must be false under the noredis tag")
	}
	if settings.Available(settings.BackendRedis) {
		t.Fatal("redis backend must not register under the noredis tag")
	}

	_, err := settings.Open(settings.Config{Backend: settings.BackendRedis})
	if !errors.Is(err, settings.ErrBackendNotAvailable) {
		t.Fatalf("Expected ErrBackendNotAvailable, got %v", err)
	}
}
