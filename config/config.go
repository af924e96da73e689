// Package config resolves the module's external settings: the transparency
// platform credential and the local cache location. Settings come from the
// environment, optionally seeded from a .env file in the working directory.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds the runtime settings for the data accessors. The core
// transforms need none of this; only the network-facing accessors do.
type Config struct {
	// EntsoeAPIKey is the transparency-platform security token.
	EntsoeAPIKey string `env:"ENTSOE_API_KEY"`
	// CacheDir is where fetched archives and extracts are kept between
	// runs. Defaults to ~/.pypsa-entsoe.
	CacheDir string `env:"PYPSA_ENTSOE_CACHE"`
}

// Load reads settings from the environment, after loading a .env file if
// one exists. A missing .env file is not an error.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot resolve home directory for cache: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".pypsa-entsoe")
	}
	return cfg, nil
}

// RequireAPIKey fails when no transparency-platform credential is set;
// called by code paths that are about to query the API.
func (c Config) RequireAPIKey() error {
	if c.EntsoeAPIKey == "" {
		return fmt.Errorf("config: ENTSOE_API_KEY is not set")
	}
	return nil
}
