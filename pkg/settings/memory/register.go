package memory

import (
	"github.com/carpi/carpi-settings/pkg/settings"
)

func init() {
	settings.RegisterBackend(settings.BackendMemory, func(cfg settings.Config) (settings.ConfigStore, error) {
		return New(cfg.Options()...), nil
	})
}
