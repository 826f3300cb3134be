package moderation

import (
	"testing"
	"time"
)

func TestSpamGuard_Thresholds(t *testing.T) {
	g := NewSpamGuard(3, 5, 5*time.Second)

	expected := []Level{LevelOK, LevelOK, LevelWarn, LevelWarn, LevelBan}
	for i, want := range expected {
		if got := g.Note(1); got != want {
			t.Errorf("message %d: expected level %v, got %v", i+1, want, got)
		}
	}
}

func TestSpamGuard_UsersAreIndependent(t *testing.T) {
	g := NewSpamGuard(3, 5, 5*time.Second)

	g.Note(1)
	g.Note(1)
	g.Note(1) // user 1 at warn

	if got := g.Note(2); got != LevelOK {
		t.Errorf("user 2's first message should be OK, got %v", got)
	}
}

func TestSpamGuard_WindowResets(t *testing.T) {
	g := NewSpamGuard(2, 3, 10*time.Millisecond)

	g.Note(1)
	if got := g.Note(1); got != LevelWarn {
		t.Fatalf("expected warn inside window, got %v", got)
	}

	time.Sleep(20 * time.Millisecond)

	if got := g.Note(1); got != LevelOK {
		t.Errorf("expected fresh window after expiry, got %v", got)
	}
}

func TestSpamGuard_ForgetAndPrune(t *testing.T) {
	g := NewSpamGuard(2, 3, 10*time.Millisecond)

	g.Note(1)
	g.Forget(1)
	if got := g.Note(1); got != LevelOK {
		t.Errorf("forgotten user should start a fresh window, got %v", got)
	}

	g.Note(2)
	time.Sleep(20 * time.Millisecond)
	g.Prune(time.Now())

	g.mu.Lock()
	remaining := len(g.buckets)
	g.mu.Unlock()
	if remaining != 0 {
		t.Errorf("prune should drop expired buckets, %d left", remaining)
	}
}
