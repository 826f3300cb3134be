package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/salachat/server/internal/domain"
)

// Ban policy modes. Zero-tolerance bans on the first violation; strikes warns
// until the per-user violation count reaches StrikeLimit.
const (
	BanPolicyZeroTolerance = "zero-tolerance"
	BanPolicyStrikes       = "strikes"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port           string
	AllowedOrigins []string

	// Logging
	LogLevel string

	// Rate Limiting (HTTP layer, per IP)
	RateLimitAPI rate.Limit
	RateLimitWS  rate.Limit

	// Transport & message limits
	MaxFrameBytes   int64
	MaxMessageChars int
	MaxVideoBytes   int64
	VideoEnabled    bool

	// Moderation policy
	BanPolicy   string
	StrikeLimit int

	// Anti-spam (per user, on top of the content policy)
	SpamGuardEnabled bool
	SpamWarnLimit    int
	SpamBanLimit     int
	SpamWindow       time.Duration

	// Retention
	BanLedgerCap       int
	BanRetention       time.Duration
	ViolationCap       int
	ViolationRetention time.Duration

	// Sweeps
	CleanupInterval     time.Duration
	MemoryPressureBytes uint64
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:8080", "http://localhost:3000"},
		LogLevel:       "info", // Options: debug, info, warn, error, silent

		RateLimitAPI: 10,
		RateLimitWS:  5,

		MaxFrameBytes:   domain.MaxFrameBytes,
		MaxMessageChars: domain.MaxMessageChars,
		MaxVideoBytes:   domain.MaxVideoBytes,
		VideoEnabled:    true,

		BanPolicy:   BanPolicyZeroTolerance,
		StrikeLimit: domain.DefaultStrikeLimit,

		SpamGuardEnabled: false,
		SpamWarnLimit:    domain.SpamWarnLimit,
		SpamBanLimit:     domain.SpamBanLimit,
		SpamWindow:       domain.SpamWindow,

		BanLedgerCap:       domain.BanLedgerCap,
		BanRetention:       domain.BanRetention,
		ViolationCap:       domain.ViolationCap,
		ViolationRetention: domain.ViolationRetention,

		CleanupInterval:     domain.CleanupInterval,
		MemoryPressureBytes: domain.MemoryPressureBytes,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if val, ok := envInt("RATE_LIMIT_API"); ok {
		cfg.RateLimitAPI = rate.Limit(val)
	}
	if val, ok := envInt("RATE_LIMIT_WS"); ok {
		cfg.RateLimitWS = rate.Limit(val)
	}

	if val, ok := envInt64("MAX_FRAME_BYTES"); ok {
		cfg.MaxFrameBytes = val
	}
	if val, ok := envInt("MAX_MESSAGE_CHARS"); ok {
		cfg.MaxMessageChars = val
	}
	if val, ok := envInt64("MAX_VIDEO_BYTES"); ok {
		cfg.MaxVideoBytes = val
	}
	if val := os.Getenv("VIDEO_ENABLED"); val != "" {
		cfg.VideoEnabled = val != "false" && val != "0"
	}

	if policy := os.Getenv("BAN_POLICY"); policy == BanPolicyZeroTolerance || policy == BanPolicyStrikes {
		cfg.BanPolicy = policy
	}
	if val, ok := envInt("STRIKE_LIMIT"); ok {
		cfg.StrikeLimit = val
	}

	if val := os.Getenv("SPAM_GUARD_ENABLED"); val != "" {
		cfg.SpamGuardEnabled = val == "true" || val == "1"
	}
	if val, ok := envInt("SPAM_WARN_LIMIT"); ok {
		cfg.SpamWarnLimit = val
	}
	if val, ok := envInt("SPAM_BAN_LIMIT"); ok {
		cfg.SpamBanLimit = val
	}
	if val, ok := envSeconds("SPAM_WINDOW_SECONDS"); ok {
		cfg.SpamWindow = val
	}

	if val, ok := envInt("BAN_LEDGER_CAP"); ok {
		cfg.BanLedgerCap = val
	}
	if val, ok := envSeconds("BAN_RETENTION_SECONDS"); ok {
		cfg.BanRetention = val
	}
	if val, ok := envInt("VIOLATION_CAP"); ok {
		cfg.ViolationCap = val
	}
	if val, ok := envSeconds("VIOLATION_RETENTION_SECONDS"); ok {
		cfg.ViolationRetention = val
	}

	if val, ok := envSeconds("CLEANUP_INTERVAL_SECONDS"); ok {
		cfg.CleanupInterval = val
	}
	if val, ok := envInt64("MEMORY_PRESSURE_BYTES"); ok {
		cfg.MemoryPressureBytes = uint64(val)
	}

	return cfg
}

// envInt reads a positive integer environment variable.
func envInt(key string) (int, bool) {
	if raw := os.Getenv(key); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			return val, true
		}
	}
	return 0, false
}

// envInt64 reads a positive 64-bit integer environment variable.
func envInt64(key string) (int64, bool) {
	if raw := os.Getenv(key); raw != "" {
		if val, err := strconv.ParseInt(raw, 10, 64); err == nil && val > 0 {
			return val, true
		}
	}
	return 0, false
}

// envSeconds reads a positive integer environment variable as a duration in seconds.
func envSeconds(key string) (time.Duration, bool) {
	if val, ok := envInt(key); ok {
		return time.Duration(val) * time.Second, true
	}
	return 0, false
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
