package moderation

import (
	"sync"
	"time"
)

// Level grades the anti-spam response for one message.
type Level int

const (
	LevelOK Level = iota
	LevelWarn
	LevelBan
)

type bucket struct {
	count       int
	windowStart time.Time
}

// SpamGuard counts messages per user inside a fixed window. Crossing warnAt
// earns a warning, crossing banAt earns a ban. Buckets are short-lived but
// pruned periodically so idle users do not accumulate.
type SpamGuard struct {
	mu      sync.Mutex
	window  time.Duration
	warnAt  int
	banAt   int
	buckets map[int64]*bucket
}

// NewSpamGuard creates a guard with the given thresholds.
func NewSpamGuard(warnAt, banAt int, window time.Duration) *SpamGuard {
	return &SpamGuard{
		window:  window,
		warnAt:  warnAt,
		banAt:   banAt,
		buckets: make(map[int64]*bucket),
	}
}

// Note records one message from the user and grades it.
func (g *SpamGuard) Note(userID int64) Level {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.buckets[userID]
	if !ok || now.Sub(b.windowStart) > g.window {
		g.buckets[userID] = &bucket{count: 1, windowStart: now}
		return LevelOK
	}

	b.count++
	switch {
	case b.count >= g.banAt:
		return LevelBan
	case b.count >= g.warnAt:
		return LevelWarn
	}
	return LevelOK
}

// Forget drops a user's bucket, typically on disconnect.
func (g *SpamGuard) Forget(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.buckets, userID)
}

// Prune removes buckets whose window has long expired.
func (g *SpamGuard) Prune(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, b := range g.buckets {
		if now.Sub(b.windowStart) > g.window {
			delete(g.buckets, id)
		}
	}
}
