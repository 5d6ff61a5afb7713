//go:build !noredis

package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/redis/go-redis/v9"
)

var connectionErrors = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"connection closed",
	"client is closed",
	"eof",
}

// IsConnectionError reports whether err means the server could not be reached
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// redis.Nil means "key not found"
	if errors.Is(err, redis.Nil) {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, connErr := range connectionErrors {
		if strings.Contains(msg, connErr) {
			return true
		}
	}

	return false
}

// wrapError marks connection errors with settings.ErrBackendUnavailable while
// keeping the original error reachable through errors.Is and errors.As.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %w", settings.ErrBackendUnavailable, err)
	}
	return err
}
