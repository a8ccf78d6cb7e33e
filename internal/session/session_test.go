package session

import (
	"testing"
	"time"
)

func TestFlash_IsOneShot(t *testing.T) {
	s := newMemoryStore()
	SetFlash(s, "Post created.")
	if msg := PopFlash(s); msg != "Post created." {
		t.Fatalf("expected flash, got %q", msg)
	}
	if msg := PopFlash(s); msg != "" {
		t.Fatalf("flash must be cleared after reading, got %q", msg)
	}
}

func TestManager_ReturnsSameStorePerSession(t *testing.T) {
	m := NewManager()
	a := m.store("a")
	a.Set("k", 1)

	if got := m.store("a"); got != a {
		t.Fatal("same session id must map to the same store")
	}
	if b := m.store("b"); b == a {
		t.Fatal("different session ids must not share a store")
	}
}

func TestManager_SweepsIdleSessions(t *testing.T) {
	m := NewManager()
	m.ttl = time.Minute

	m.store("idle")
	m.store("active")

	// Backdate the idle session past the TTL and force the next access to
	// run a sweep.
	m.mu.Lock()
	m.sessions["idle"].seen = time.Now().Add(-2 * time.Minute)
	m.lastSweep = time.Now().Add(-time.Minute)
	m.mu.Unlock()

	m.store("active")

	m.mu.Lock()
	_, idleKept := m.sessions["idle"]
	_, activeKept := m.sessions["active"]
	m.mu.Unlock()
	if idleKept {
		t.Fatal("idle session must be swept")
	}
	if !activeKept {
		t.Fatal("active session must survive the sweep")
	}
}
