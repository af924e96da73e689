package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENTSOE_API_KEY", "secret-token")
	t.Setenv("PYPSA_ENTSOE_CACHE", "/tmp/pypsa-cache")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.EntsoeAPIKey)
	assert.Equal(t, "/tmp/pypsa-cache", cfg.CacheDir)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_DefaultCacheDir(t *testing.T) {
	t.Setenv("ENTSOE_API_KEY", "secret-token")
	t.Setenv("PYPSA_ENTSOE_CACHE", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pypsa-entsoe"), cfg.CacheDir)
}

func TestRequireAPIKey(t *testing.T) {
	err := Config{}.RequireAPIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENTSOE_API_KEY")
}
