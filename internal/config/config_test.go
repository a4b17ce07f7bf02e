package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MongoDB != "guessquest" {
		t.Errorf("expected default database name, got %s", cfg.MongoDB)
	}
	if cfg.GuestTTL != time.Hour {
		t.Errorf("expected default guest TTL of 1h, got %s", cfg.GuestTTL)
	}
	if cfg.RoundTTL != 24*time.Hour {
		t.Errorf("expected default round TTL of 24h, got %s", cfg.RoundTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GUEST_TTL_SECONDS", "120")
	t.Setenv("ROUND_TTL_SECONDS", "0")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.GuestTTL != 2*time.Minute {
		t.Errorf("expected guest TTL of 2m, got %s", cfg.GuestTTL)
	}
	if cfg.RoundTTL != 0 {
		t.Errorf("expected round eviction disabled, got %s", cfg.RoundTTL)
	}
}

func TestLoadIgnoresInvalidSeconds(t *testing.T) {
	t.Setenv("GUEST_TTL_SECONDS", "not-a-number")
	t.Setenv("ROUND_TTL_SECONDS", "-5")

	cfg := Load()

	if cfg.GuestTTL != time.Hour {
		t.Errorf("expected fallback guest TTL, got %s", cfg.GuestTTL)
	}
	if cfg.RoundTTL != 24*time.Hour {
		t.Errorf("expected fallback round TTL, got %s", cfg.RoundTTL)
	}
}
