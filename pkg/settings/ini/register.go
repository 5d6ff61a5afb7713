package ini

import (
	"fmt"

	"github.com/carpi/carpi-settings/pkg/settings"
)

func init() {
	settings.RegisterBackend(settings.BackendIni, func(cfg settings.Config) (settings.ConfigStore, error) {
		if cfg.IniFile == "" {
			return nil, fmt.Errorf("ini file is required when backend is 'ini'")
		}
		return Open(Config{Path: cfg.IniFile, CreateSections: cfg.IniCreateSections}, cfg.Options()...)
	})
}
