//go:build !noredis

package redis

import (
	"github.com/carpi/carpi-settings/pkg/settings"
)

func init() {
	settings.RegisterBackend(settings.BackendRedis, func(cfg settings.Config) (settings.ConfigStore, error) {
		return New(Config{
			URL:      cfg.RedisURL,
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
		}, cfg.Options()...)
	})
}
