package config

import "fmt"

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Overlay.ConfigPath == "" {
		return fmt.Errorf("overlay config path is required")
	}
	if c.RateLimit.ConnectPerMinute < 1 {
		return fmt.Errorf("invalid connect rate limit: %d", c.RateLimit.ConnectPerMinute)
	}
	if c.RateLimit.ConfigPerMinute < 1 {
		return fmt.Errorf("invalid config rate limit: %d", c.RateLimit.ConfigPerMinute)
	}
	return nil
}
