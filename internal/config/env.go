package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv builds a Config populated only from environment variables, mapped
// through the `env` and `envPrefix` struct tags on Config.
func parseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse env config: %w", err)
	}
	return cfg, nil
}
