package ripple

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// LoadConfigFromEnv reads RIPPLE_* environment variables into a ClientConfig.
// Adapters and app/device metadata are left for the caller to set.
func LoadConfigFromEnv() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
