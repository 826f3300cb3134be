package domain

import "time"

// ==== Transport Constants ====

// MaxFrameBytes is the default transport read limit for a single frame.
// Video data-URLs dominate frame size, so the ceiling is generous.
const MaxFrameBytes = 700 << 20

// ==== Message Constants ====

const (
	// MaxMessageChars is the longest accepted text message, in runes
	MaxMessageChars = 1000

	// MaxVideoBytes caps the encoded video payload of a video_message
	MaxVideoBytes = 500 << 20
)

// ==== Moderation Constants ====

const (
	// BanLedgerCap bounds the ban ledger; inserting past it evicts the oldest ban
	BanLedgerCap = 1000

	// BanRetention is how long a ban record survives before the cleanup sweep drops it
	BanRetention = 24 * time.Hour

	// ViolationCap bounds the per-user violation history
	ViolationCap = 50

	// ViolationRetention is how long violation records are kept for audit
	ViolationRetention = time.Hour

	// DefaultStrikeLimit is the violation count that triggers a ban under the strikes policy
	DefaultStrikeLimit = 3
)

// ==== Spam Constants ====

const (
	// SpamWindow is the sliding window for the per-user message counter
	SpamWindow = 5 * time.Second

	// SpamWarnLimit messages inside the window get the sender a warning
	SpamWarnLimit = 5

	// SpamBanLimit messages inside the window get the sender banned
	SpamBanLimit = 10
)

// ==== Sweep Constants ====

const (
	// CleanupInterval is the period of the retention sweep
	CleanupInterval = 5 * time.Minute

	// MemoryPressureBytes is the heap size that triggers an early retention sweep
	MemoryPressureBytes = 512 << 20
)
