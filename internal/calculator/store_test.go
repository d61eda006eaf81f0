package calculator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(time.Minute, nil)

	id, pad := s.Create()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected UUID session id, got %q: %v", id, err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got != pad {
		t.Fatal("expected Get to return the created pad")
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestStoreSweepExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(10*time.Minute, nil)
	s.now = func() time.Time { return now }

	idle, _ := s.Create()
	active, _ := s.Create()

	now = now.Add(6 * time.Minute)
	if _, err := s.Get(active); err != nil {
		t.Fatalf("touching active session: %v", err)
	}

	now = now.Add(6 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}

	if _, err := s.Get(idle); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to expire, got %v", err)
	}
	if _, err := s.Get(active); err != nil {
		t.Fatalf("expected active session to survive, got %v", err)
	}
}

func TestStoreRunClosesSessionsOnCancel(t *testing.T) {
	s := NewStore(time.Minute, nil)
	s.Create()
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}

	if s.Len() != 0 {
		t.Fatalf("expected no sessions after shutdown, got %d", s.Len())
	}
}
