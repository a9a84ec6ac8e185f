// Package config provides configuration management for the showbridge server
package config

import (
	"time"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// ServerConfig holds HTTP server settings. The control plane and the
// streaming channel share a single listening port.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// OverlayConfig holds display-overlay settings
type OverlayConfig struct {
	// ConfigPath is where the display configuration JSON persists
	ConfigPath string `yaml:"configPath"`
	// AssetDir optionally overrides the embedded overlay assets
	AssetDir string `yaml:"assetDir"`
}

// RateLimitConfig holds per-minute request budgets
type RateLimitConfig struct {
	ConnectPerMinute int `yaml:"connectPerMinute"`
	ConfigPerMinute  int `yaml:"configPerMinute"`
}

// Load returns the built-in defaults overlaid with environment variables
func Load() (*Config, error) {
	cfg := defaults()
	cfg.overlayEnv()
	return cfg, cfg.validate()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Overlay: OverlayConfig{
			ConfigPath: "config.json",
		},
		RateLimit: RateLimitConfig{
			ConnectPerMinute: 60,
			ConfigPerMinute:  30,
		},
	}
}

// overlayEnv overlays environment variables on top of file-based config
func (c *Config) overlayEnv() {
	if host := getEnv("SBRIDGE_SERVER_HOST", ""); host != "" {
		c.Server.Host = host
	}
	if port := getEnvAsInt("SBRIDGE_SERVER_PORT", 0); port != 0 {
		c.Server.Port = port
	}
	if readTimeout := getEnvAsDuration("SBRIDGE_SERVER_READ_TIMEOUT", 0); readTimeout != 0 {
		c.Server.ReadTimeout = readTimeout
	}
	if writeTimeout := getEnvAsDuration("SBRIDGE_SERVER_WRITE_TIMEOUT", 0); writeTimeout != 0 {
		c.Server.WriteTimeout = writeTimeout
	}
	if idleTimeout := getEnvAsDuration("SBRIDGE_SERVER_IDLE_TIMEOUT", 0); idleTimeout != 0 {
		c.Server.IdleTimeout = idleTimeout
	}
	if path := getEnv("SBRIDGE_OVERLAY_CONFIG_PATH", ""); path != "" {
		c.Overlay.ConfigPath = path
	}
	if dir := getEnv("SBRIDGE_OVERLAY_ASSET_DIR", ""); dir != "" {
		c.Overlay.AssetDir = dir
	}
	if n := getEnvAsInt("SBRIDGE_RATELIMIT_CONNECT_PER_MINUTE", 0); n != 0 {
		c.RateLimit.ConnectPerMinute = n
	}
	if n := getEnvAsInt("SBRIDGE_RATELIMIT_CONFIG_PER_MINUTE", 0); n != 0 {
		c.RateLimit.ConfigPerMinute = n
	}
}
