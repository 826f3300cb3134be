package moderation

import (
	"sync"
	"time"

	"github.com/salachat/server/internal/domain"
)

// Ledger holds ban records and per-user violation history. Everything is
// bounded: bans evict FIFO past banCap, each user's violation list drops its
// oldest entry past violationCap, and Purge enforces the retention windows.
// All state lives in memory only and is lost on restart.
type Ledger struct {
	mu sync.RWMutex

	banCap       int
	banRetention time.Duration
	bans         map[int64]*domain.BanRecord
	order        []int64 // insertion order, oldest first
	byPrint      map[string]int64

	violationCap       int
	violationRetention time.Duration
	violations         map[int64][]domain.Violation
}

// NewLedger creates an empty ledger with the given bounds.
func NewLedger(banCap int, banRetention time.Duration, violationCap int, violationRetention time.Duration) *Ledger {
	return &Ledger{
		banCap:             banCap,
		banRetention:       banRetention,
		bans:               make(map[int64]*domain.BanRecord),
		byPrint:            make(map[string]int64),
		violationCap:       violationCap,
		violationRetention: violationRetention,
		violations:         make(map[int64][]domain.Violation),
	}
}

// Ban inserts or overwrites a ban record. Inserting past capacity evicts the
// oldest entry; overwriting keeps the original insertion position.
func (l *Ledger) Ban(rec domain.BanRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.bans[rec.UserID]; !exists {
		if len(l.order) >= l.banCap {
			l.evictOldestLocked()
		}
		l.order = append(l.order, rec.UserID)
	}

	r := rec
	l.bans[rec.UserID] = &r
	if rec.Fingerprint != "" {
		l.byPrint[rec.Fingerprint] = rec.UserID
	}
}

// evictOldestLocked drops the oldest ban. Caller must hold the write lock.
func (l *Ledger) evictOldestLocked() {
	oldest := l.order[0]
	l.order = l.order[1:]
	if rec := l.bans[oldest]; rec != nil && rec.Fingerprint != "" {
		delete(l.byPrint, rec.Fingerprint)
	}
	delete(l.bans, oldest)
}

// Lookup returns the ban record for a user id, if any.
func (l *Ledger) Lookup(userID int64) (domain.BanRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if rec, ok := l.bans[userID]; ok {
		return *rec, true
	}
	return domain.BanRecord{}, false
}

// LookupFingerprint returns the ban record matching a connection fingerprint.
// This is the connect-time check: ids are never reused within a run, so the
// fingerprint is what actually stops a banned user from coming back.
func (l *Ledger) LookupFingerprint(fp string) (domain.BanRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if id, ok := l.byPrint[fp]; ok {
		if rec, ok := l.bans[id]; ok {
			return *rec, true
		}
	}
	return domain.BanRecord{}, false
}

// Bans returns all ban records in insertion order.
func (l *Ledger) Bans() []domain.BanRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.BanRecord, 0, len(l.order))
	for _, id := range l.order {
		if rec, ok := l.bans[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// BanCount returns the number of active ban records.
func (l *Ledger) BanCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bans)
}

// RecordViolation appends to a user's violation history, dropping the oldest
// entry past the cap, and returns the count after the append.
func (l *Ledger) RecordViolation(userID int64, v domain.Violation) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := append(l.violations[userID], v)
	if len(list) > l.violationCap {
		list = list[len(list)-l.violationCap:]
	}
	l.violations[userID] = list
	return len(list)
}

// Violations returns a copy of a user's violation history.
func (l *Ledger) Violations(userID int64) []domain.Violation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.violations[userID]
	out := make([]domain.Violation, len(list))
	copy(out, list)
	return out
}

// ViolationUserCount returns how many users have recorded violations.
func (l *Ledger) ViolationUserCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.violations)
}

// Purge drops ban records older than the ban retention window and violation
// entries older than the violation retention window. Users whose history
// empties out are removed entirely.
func (l *Ledger) Purge(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.order[:0]
	for _, id := range l.order {
		rec := l.bans[id]
		if rec == nil {
			continue
		}
		if now.Sub(rec.Timestamp) > l.banRetention {
			if rec.Fingerprint != "" {
				delete(l.byPrint, rec.Fingerprint)
			}
			delete(l.bans, id)
			continue
		}
		kept = append(kept, id)
	}
	l.order = kept

	for id, list := range l.violations {
		fresh := list[:0]
		for _, v := range list {
			if now.Sub(v.Timestamp) <= l.violationRetention {
				fresh = append(fresh, v)
			}
		}
		if len(fresh) == 0 {
			delete(l.violations, id)
		} else {
			l.violations[id] = fresh
		}
	}
}

// Reset clears all ledger state. Used on graceful shutdown.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bans = make(map[int64]*domain.BanRecord)
	l.byPrint = make(map[string]int64)
	l.order = nil
	l.violations = make(map[int64][]domain.Violation)
}
