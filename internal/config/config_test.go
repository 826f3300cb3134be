package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.BanPolicy != BanPolicyZeroTolerance {
		t.Errorf("expected zero-tolerance default, got %q", cfg.BanPolicy)
	}
	if cfg.SpamGuardEnabled {
		t.Error("spam guard must be off by default")
	}
	if !cfg.VideoEnabled {
		t.Error("video must be on by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com")
	t.Setenv("BAN_POLICY", "strikes")
	t.Setenv("STRIKE_LIMIT", "5")
	t.Setenv("SPAM_GUARD_ENABLED", "true")
	t.Setenv("SPAM_WINDOW_SECONDS", "10")
	t.Setenv("VIDEO_ENABLED", "false")
	t.Setenv("MAX_MESSAGE_CHARS", "500")

	cfg := LoadFromEnv()

	if cfg.Port != "9090" {
		t.Errorf("PORT: got %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example.com" {
		t.Errorf("ALLOWED_ORIGINS: got %v", cfg.AllowedOrigins)
	}
	if cfg.BanPolicy != BanPolicyStrikes || cfg.StrikeLimit != 5 {
		t.Errorf("ban policy: got %q limit %d", cfg.BanPolicy, cfg.StrikeLimit)
	}
	if !cfg.SpamGuardEnabled || cfg.SpamWindow != 10*time.Second {
		t.Errorf("spam guard: enabled=%v window=%v", cfg.SpamGuardEnabled, cfg.SpamWindow)
	}
	if cfg.VideoEnabled {
		t.Error("VIDEO_ENABLED=false must disable video")
	}
	if cfg.MaxMessageChars != 500 {
		t.Errorf("MAX_MESSAGE_CHARS: got %d", cfg.MaxMessageChars)
	}
}

func TestLoadFromEnv_RejectsBadValues(t *testing.T) {
	t.Setenv("BAN_POLICY", "lenient")
	t.Setenv("STRIKE_LIMIT", "-2")
	t.Setenv("MAX_MESSAGE_CHARS", "not-a-number")

	cfg := LoadFromEnv()
	def := DefaultConfig()

	if cfg.BanPolicy != def.BanPolicy {
		t.Errorf("unknown policy must keep the default, got %q", cfg.BanPolicy)
	}
	if cfg.StrikeLimit != def.StrikeLimit {
		t.Errorf("negative limit must keep the default, got %d", cfg.StrikeLimit)
	}
	if cfg.MaxMessageChars != def.MaxMessageChars {
		t.Errorf("non-numeric value must keep the default, got %d", cfg.MaxMessageChars)
	}
}
