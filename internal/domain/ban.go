package domain

import "time"

// ViolationType classifies a recorded policy violation.
type ViolationType string

const (
	ViolationLink       ViolationType = "LINK"
	ViolationBannedWord ViolationType = "BANNED_WORD"
)

// BanRecord is the ledger entry for a banned user.
type BanRecord struct {
	UserID      int64     `json:"userId"`
	UserName    string    `json:"userName"`
	Reason      string    `json:"reason"`
	Fingerprint string    `json:"-"`
	Timestamp   time.Time `json:"timestamp"`
}

// Violation is one audit entry in a user's bounded violation history.
type Violation struct {
	Type      ViolationType `json:"type"`
	Word      string        `json:"word,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
