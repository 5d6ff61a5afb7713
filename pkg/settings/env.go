package settings

import (
	"fmt"

	"github.com/carpi/carpi-settings/internal/config"
	"github.com/carpi/carpi-settings/internal/log"
)

// ConfigFromEnv reads CARPI_* environment variables (and a .env file, if any)
// into a Config. A Logger or LoggerName given in opts is kept; otherwise a zap
// logger is built for CARPI_ENV and CARPI_LOG_LEVEL. A prod environment that
// selects the memory backend is logged as a warning. When
// CARPI_SETTINGS_METRICS is true the Config carries a Recorder registered with
// the default Prometheus registry.
func ConfigFromEnv(opts ...Option) (Config, error) {
	env, err := config.Load()
	if err != nil {
		return Config{}, err
	}

	o := ApplyOptions(opts...)
	if o.Logger == nil {
		logger, err := log.NewSugar(env.Env, env.LogLevel)
		if err != nil {
			return Config{}, fmt.Errorf("failed to create logger: %w", err)
		}
		o.Logger = logger
	}
	if o.LoggerName == "" {
		o.LoggerName = env.Settings.LoggerName
	}

	s := env.Settings
	if env.IsProd() && Backend(s.Backend) == BackendMemory {
		o.Logger.Warnw("Using the in-memory backend in production, settings are lost on exit",
			"env", env.Env)
	}

	cfg := Config{
		Backend:           Backend(s.Backend),
		IniFile:           s.IniFile,
		IniCreateSections: s.IniCreateSections,
		RedisURL:          s.RedisURL,
		RedisHost:         s.RedisHost,
		RedisPort:         s.RedisPort,
		RedisDB:           s.RedisDB,
		RedisPassword:     s.RedisPassword,
		LoggerName:        o.LoggerName,
		Logger:            o.Logger,
	}

	if s.Metrics {
		rec, _, err := NewMetrics("carpi-settings")
		if err != nil {
			return Config{}, fmt.Errorf("failed to setup metrics: %w", err)
		}
		cfg.Recorder = rec
	}

	return cfg, nil
}

// OpenFromEnv opens the store described by ConfigFromEnv
func OpenFromEnv(opts ...Option) (ConfigStore, error) {
	cfg, err := ConfigFromEnv(opts...)
	if err != nil {
		return nil, err
	}
	return Open(cfg)
}
