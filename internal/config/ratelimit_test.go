package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	if !cfg.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.Capacity != 60 {
		t.Errorf("Capacity = %d, want 60", cfg.Capacity)
	}
	if cfg.RefillInterval != time.Second {
		t.Errorf("RefillInterval = %v, want 1s", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL = %v, want at least 5x refill interval", cfg.TTL)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 {
		t.Errorf("Capacity = %d, want clamped to >= 1", cfg.Capacity)
	}
	if cfg.RefillTokens < 1 {
		t.Errorf("RefillTokens = %d, want clamped to >= 1", cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL = %v, want raised to 5x refill interval", cfg.TTL)
	}
}

func TestLoadRateLimitConfigBurstOverride(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 10 {
		t.Errorf("Capacity = %d, want 10 (burst override)", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
		t.Errorf("refill = %d/%v, want 1 token every 2s", cfg.RefillTokens, cfg.RefillInterval)
	}
}
