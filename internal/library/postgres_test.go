package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/park285/Cheese-PositionSetup/internal/position"
)

// Malformed ids are rejected before any query, so a zero Postgres is enough.
func TestPostgres_MalformedIDIsNotFound(t *testing.T) {
	r := &Postgres{now: time.Now}
	ctx := context.Background()
	for _, id := range []string{"abc", "", "123e4567-e89b-12d3-a456-42661417400"} {
		if _, err := r.Get(ctx, "u1", id); !errors.Is(err, ErrNotFound) { t.Fatalf("Get(%q): %v", id, err) }
		if err := r.Delete(ctx, "u1", id); !errors.Is(err, ErrNotFound) { t.Fatalf("Delete(%q): %v", id, err) }
	}
	if _, err := r.Save(ctx, &Entry{ID: "abc", Owner: "u1", Name: "x", FEN: position.DefaultFEN}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Save with malformed id: %v", err)
	}
}

func TestValidID(t *testing.T) {
	if !validID(uuid.NewString()) { t.Fatalf("generated uuid rejected") }
	if validID("../etc") { t.Fatalf("path accepted as id") }
}
