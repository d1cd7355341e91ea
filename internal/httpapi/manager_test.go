package httpapi

import (
	"errors"
	"testing"
	"time"

	"github.com/park285/Cheese-PositionSetup/internal/setup"
)

func TestManager_IdleEviction(t *testing.T) {
	m := NewManager(ManagerOptions{Limit: 2, IdleTTL: time.Minute})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	a, err := m.Create()
	if err != nil { t.Fatalf("Create a: %v", err) }
	clock = clock.Add(30 * time.Second)
	b, err := m.Create()
	if err != nil { t.Fatalf("Create b: %v", err) }
	if _, err := m.Create(); !errors.Is(err, ErrSessionLimit) { t.Fatalf("expected limit, got %v", err) }

	// touching b keeps it alive; a goes idle
	clock = clock.Add(45 * time.Second)
	if _, err := m.With(b, func(*setup.Session) error { return nil }); err != nil { t.Fatalf("With b: %v", err) }
	if _, err := m.Create(); err != nil { t.Fatalf("Create after idle: %v", err) }
	if _, err := m.With(a, func(*setup.Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) { t.Fatalf("a should be evicted: %v", err) }
	if m.Len() != 2 { t.Fatalf("len=%d", m.Len()) }
}

func TestManager_WarningsAreScopedToCall(t *testing.T) {
	m := NewManager(ManagerOptions{})
	id, _ := m.Create()
	w, err := m.With(id, func(s *setup.Session) error { s.SetFEN("bad"); return nil })
	if err != nil || len(w) != 1 { t.Fatalf("warnings=%v err=%v", w, err) }
	w, _ = m.With(id, func(s *setup.Session) error { return nil })
	if len(w) != 0 { t.Fatalf("warnings leaked: %v", w) }
}
