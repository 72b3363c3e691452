// Package config reads console settings from the environment, with a
// .env file loaded when present.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"tailor-console/internal/api"
)

// Config is everything the binaries need to talk to the backend.
type Config struct {
	BaseURL   string
	TokenPath string
	Timeout   time.Duration
}

// Load reads TAILOR_* variables, falling back to defaults. A missing
// .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL: os.Getenv("TAILOR_API_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = api.DefaultBaseURL
	}

	if v := os.Getenv("TAILOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	cfg.TokenPath = os.Getenv("TAILOR_TOKEN_PATH")
	if cfg.TokenPath == "" {
		path, err := api.DefaultTokenPath()
		if err != nil {
			return cfg, err
		}
		cfg.TokenPath = path
	}
	return cfg, nil
}

// ClientConfig converts the loaded settings into an API client config.
func (c Config) ClientConfig() api.Config {
	return api.Config{
		BaseURL: c.BaseURL,
		Store:   api.NewFileTokenStore(c.TokenPath),
		Timeout: c.Timeout,
	}
}
