package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)

	assert.Equal(t, "Fridge Chef", cfg.App.Name)
	assert.Equal(t, "en", cfg.App.Language)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AI.Model)
	assert.Equal(t, "API_KEY", cfg.AI.APIKeyEnv)
	assert.Equal(t, time.Duration(0), cfg.AI.Timeout)
	assert.Equal(t, 3, cfg.AI.RecipeCount)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	yaml := "app:\n  language: ko\nserver:\n  port: 9000\nai:\n  model: gemini-test\n"
	cfg, err := loadFromDir(t, yaml)
	require.NoError(t, err)
	assert.Equal(t, "ko", cfg.App.Language)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "gemini-test", cfg.AI.Model)

	t.Setenv("FRIDGECHEF_SERVER_PORT", "9100")
	cfg, err = loadFromDir(t, yaml)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_InvalidLanguage(t *testing.T) {
	_, err := loadFromDir(t, "app:\n  language: fr\n")
	assert.ErrorContains(t, err, "app.language")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := loadFromDir(t, "")
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(*Config){
		"port":         func(c *Config) { c.Server.Port = 0 },
		"provider":     func(c *Config) { c.AI.Provider = "ollama" },
		"model":        func(c *Config) { c.AI.Model = "" },
		"api key env":  func(c *Config) { c.AI.APIKeyEnv = "" },
		"recipe count": func(c *Config) { c.AI.RecipeCount = 0 },
		"cookie":       func(c *Config) { c.Session.CookieName = "" },
		"rate limit":   func(c *Config) { c.RateLimit.Enable = true; c.RateLimit.RequestsPerMin = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// loadFromDir writes contents as config.yaml into a temp dir and loads it
func loadFromDir(t *testing.T, contents string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return Load(path)
}
