package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", cfg.BaseURL)
	assert.Equal(t, dir, cfg.ProfileDir)
}

func TestLoadReadsProfileConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json"),
		[]byte(`{"base_url":"https://shop.example.com"}`),
		0o644,
	))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
}

func TestEnvOverridesFileConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json"),
		[]byte(`{"base_url":"https://file.example.com"}`),
		0o644,
	))
	t.Setenv(EnvBaseURL, "https://env.example.com")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestMalformedConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json"),
		[]byte("{broken"),
		0o644,
	))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseURL, cfg.BaseURL)
}

func TestProfileEnvSelectsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvProfile, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProfileDir)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{BaseURL: "https://shop.example.com", ProfileDir: filepath.Join(dir, "profile")}

	require.NoError(t, Save(cfg))

	loaded, err := Load(cfg.ProfileDir)
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseURL, loaded.BaseURL)
}
