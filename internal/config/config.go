package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env      string `mapstructure:"CARPI_ENV"`
	LogLevel string `mapstructure:"CARPI_LOG_LEVEL"`

	Settings SettingsConfig `mapstructure:",squash"`
}

type SettingsConfig struct {
	Backend    string `mapstructure:"CARPI_SETTINGS_BACKEND"` // "memory", "ini", "redis"
	LoggerName string `mapstructure:"CARPI_SETTINGS_LOGGER_NAME"`
	Metrics    bool   `mapstructure:"CARPI_SETTINGS_METRICS"`

	IniFile           string `mapstructure:"CARPI_SETTINGS_INI_FILE"`
	IniCreateSections bool   `mapstructure:"CARPI_SETTINGS_INI_CREATE_SECTIONS"`

	RedisURL      string `mapstructure:"CARPI_SETTINGS_REDIS_URL"`
	RedisHost     string `mapstructure:"CARPI_SETTINGS_REDIS_HOST"`
	RedisPort     int    `mapstructure:"CARPI_SETTINGS_REDIS_PORT"`
	RedisDB       int    `mapstructure:"CARPI_SETTINGS_REDIS_DB"`
	RedisPassword string `mapstructure:"CARPI_SETTINGS_REDIS_PASSWORD"`
}

var defaults = map[string]any{
	"CARPI_ENV":                          "dev",
	"CARPI_LOG_LEVEL":                    "",
	"CARPI_SETTINGS_BACKEND":             "memory",
	"CARPI_SETTINGS_LOGGER_NAME":         "",
	"CARPI_SETTINGS_METRICS":             false,
	"CARPI_SETTINGS_INI_FILE":            "",
	"CARPI_SETTINGS_INI_CREATE_SECTIONS": false,
	"CARPI_SETTINGS_REDIS_URL":           "",
	"CARPI_SETTINGS_REDIS_HOST":          "127.0.0.1",
	"CARPI_SETTINGS_REDIS_PORT":          6379,
	"CARPI_SETTINGS_REDIS_DB":            0,
	"CARPI_SETTINGS_REDIS_PASSWORD":      "",
}

func loadDotEnvFiles() {
	candidates := []string{".env"}
	if path := os.Getenv("CARPI_ENV_FILE"); path != "" {
		candidates = append([]string{path}, candidates...)
	}

	seen := make(map[string]struct{})
	for _, path := range candidates {
		abs := path
		if !filepath.IsAbs(path) {
			if resolved, err := filepath.Abs(path); err == nil {
				abs = resolved
			}
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

// Load reads the settings configuration from the environment and any .env file
func Load() (*Config, error) {
	loadDotEnvFiles()

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees it through AutomaticEnv
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Settings.Backend = strings.ToLower(strings.TrimSpace(cfg.Settings.Backend))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Settings.Backend {
	case "memory", "redis":
	case "ini":
		if c.Settings.IniFile == "" {
			return fmt.Errorf("CARPI_SETTINGS_INI_FILE is required when backend is 'ini'")
		}
	default:
		return fmt.Errorf("invalid CARPI_SETTINGS_BACKEND %q (must be memory, ini, or redis)", c.Settings.Backend)
	}
	if c.Settings.RedisPort < 0 || c.Settings.RedisPort > 65535 {
		return fmt.Errorf("invalid CARPI_SETTINGS_REDIS_PORT %d", c.Settings.RedisPort)
	}
	if c.Settings.RedisDB < 0 {
		return fmt.Errorf("invalid CARPI_SETTINGS_REDIS_DB %d", c.Settings.RedisDB)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
