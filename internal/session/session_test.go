package session

import (
	"sync"
	"testing"
	"time"
)

func TestCreateAndLookup(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	s := m.Create(42)

	if s.Token == "" {
		t.Fatal("expected a non-empty token")
	}

	got, ok := m.Lookup(s.Token)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.UserID != 42 {
		t.Errorf("UserID = %d, want 42", got.UserID)
	}
}

func TestLookup_UnknownToken(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	if _, ok := m.Lookup("nonexistent"); ok {
		t.Fatal("expected ok=false for unknown token")
	}
}

func TestLookup_ExpiredSessionDropped(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Minute)
	current := time.Now()
	m.now = func() time.Time { return current }

	s := m.Create(7)

	// Advance past the TTL.
	current = current.Add(2 * time.Minute)

	if _, ok := m.Lookup(s.Token); ok {
		t.Fatal("expected expired session to be rejected")
	}
	// The expired entry is gone for good even if the clock moves back.
	current = current.Add(-10 * time.Minute)
	if _, ok := m.Lookup(s.Token); ok {
		t.Fatal("expected expired session to have been dropped")
	}
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	s := m.Create(1)

	m.Destroy(s.Token)
	if _, ok := m.Lookup(s.Token); ok {
		t.Fatal("expected destroyed session to be gone")
	}

	// Unknown token is a no-op.
	m.Destroy("nonexistent")
}

func TestDestroyUser_RemovesAllUserSessions(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	s1 := m.Create(1)
	s2 := m.Create(1)
	other := m.Create(2)

	m.DestroyUser(1)

	if _, ok := m.Lookup(s1.Token); ok {
		t.Error("expected first session to be gone")
	}
	if _, ok := m.Lookup(s2.Token); ok {
		t.Error("expected second session to be gone")
	}
	if _, ok := m.Lookup(other.Token); !ok {
		t.Error("expected other user's session to survive")
	}
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	seen := make(map[string]bool)
	for range 100 {
		s := m.Create(1)
		if seen[s.Token] {
			t.Fatalf("duplicate token %q", s.Token)
		}
		seen[s.Token] = true
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n * 2)

	for i := range n {
		go func() {
			defer wg.Done()
			s := m.Create(int64(i))
			m.Lookup(s.Token)
		}()
		go func() {
			defer wg.Done()
			m.DestroyUser(int64(i))
		}()
	}

	wg.Wait()
}
