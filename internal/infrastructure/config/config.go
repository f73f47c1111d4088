// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FRIDGECHEF_SERVER_PORT
const EnvPrefix = "FRIDGECHEF"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
	Session    SessionConfig    `mapstructure:"session"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	// Language is the default display language ("en" or "ko")
	Language string `mapstructure:"language"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SecureCookies   bool          `mapstructure:"secure_cookies"`
}

// AIConfig contains generation service configuration.
// The credential itself is not stored here: it is read from APIKeyEnv on every call.
type AIConfig struct {
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	APIKeyEnv         string        `mapstructure:"api_key_env"`
	FallbackAPIKeyEnv string        `mapstructure:"fallback_api_key_env"`
	BaseURL           string        `mapstructure:"base_url"`
	APIVersion        string        `mapstructure:"api_version"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RecipeCount       int           `mapstructure:"recipe_count"`
}

// SessionConfig controls the in-memory session store
type SessionConfig struct {
	CookieName  string        `mapstructure:"cookie_name"`
	TTL         time.Duration `mapstructure:"ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// RateLimitConfig contains rate limiting configuration for generation requests
type RateLimitConfig struct {
	Enable         bool `mapstructure:"enable"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	BurstSize      int  `mapstructure:"burst_size"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool          `mapstructure:"enable_metrics"`
	MetricsPath     string        `mapstructure:"metrics_path"`
	HealthCheckPath string        `mapstructure:"health_check_path"`
	ReadinessPath   string        `mapstructure:"readiness_path"`
	LivenessPath    string        `mapstructure:"liveness_path"`
	HealthCacheTTL  time.Duration `mapstructure:"health_cache_ttl"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fridgechef")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Fridge Chef")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.language", "en")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	// Generation calls have no application timeout, so writes get a generous window
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-3-flash-preview")
	v.SetDefault("ai.api_key_env", "API_KEY")
	v.SetDefault("ai.fallback_api_key_env", "GEMINI_API_KEY")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_version", "")
	v.SetDefault("ai.timeout", "0s")
	v.SetDefault("ai.recipe_count", 3)

	v.SetDefault("session.cookie_name", "fridgechef-session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.max_sessions", 10000)

	v.SetDefault("rate_limit.enable", true)
	v.SetDefault("rate_limit.requests_per_min", 10)
	v.SetDefault("rate_limit.burst_size", 3)

	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.health_check_path", "/health")
	v.SetDefault("monitoring.readiness_path", "/ready")
	v.SetDefault("monitoring.liveness_path", "/live")
	v.SetDefault("monitoring.health_cache_ttl", "5s")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.App.Language {
	case "en", "ko":
	default:
		return fmt.Errorf("app.language must be one of en, ko")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.AI.Provider != "gemini" {
		return fmt.Errorf("ai.provider %q is not supported", c.AI.Provider)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if c.AI.APIKeyEnv == "" {
		return fmt.Errorf("ai.api_key_env is required")
	}
	if c.AI.RecipeCount < 1 {
		return fmt.Errorf("ai.recipe_count must be at least 1")
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.Session.MaxSessions < 1 {
		return fmt.Errorf("session.max_sessions must be at least 1")
	}

	if c.RateLimit.Enable && c.RateLimit.RequestsPerMin < 1 {
		return fmt.Errorf("rate_limit.requests_per_min must be at least 1 when enabled")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
