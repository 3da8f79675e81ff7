package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "DREAMLOCK_"

// parseEnv populates cfg from DREAMLOCK_* environment variables.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
