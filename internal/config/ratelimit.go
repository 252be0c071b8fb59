package config

import "time"

// RateLimitConfig drives the token-bucket limiter applied to the login and
// register endpoints.  Capacity is the burst size; one token is refilled
// every RefillInterval.  Keys expire after TTL to keep Redis tidy.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, clamping nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       atoi(getenvDefault("RATE_LIMIT_CAPACITY", "20")),
		RefillTokens:   atoi(getenvDefault("RATE_LIMIT_REFILL_TOKENS", "1")),
		RefillInterval: parseDur(getenvDefault("RATE_LIMIT_REFILL_INTERVAL", "3s")),
		TTL:            parseDur(getenvDefault("RATE_LIMIT_TTL", "10m")),
		Prefix:         getenvDefault("RATE_LIMIT_PREFIX", "bb:rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}
