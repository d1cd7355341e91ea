// Package library stores named FEN snapshots so a position built in the
// editor can be recalled later.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/Cheese-PositionSetup/internal/position"
)

var (
	ErrNotFound    = errors.New("saved position not found")
	ErrInvalidName = errors.New("saved position name is empty")
)

const (
	maxNameRunes = 80
	defaultLimit = 20
	maxLimit     = 200
)

// Entry is one saved position.
type Entry struct {
	ID        string
	Owner     string
	Name      string
	FEN       string
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, e *Entry) (*Entry, error)
	Get(ctx context.Context, owner, id string) (*Entry, error)
	List(ctx context.Context, owner string, limit int) ([]*Entry, error)
	Delete(ctx context.Context, owner, id string) error
}

// prepare validates and canonicalizes an entry before it is stored.
func prepare(e *Entry, now time.Time) (*Entry, error) {
	if e == nil {
		return nil, fmt.Errorf("nil entry")
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if r := []rune(name); len(r) > maxNameRunes {
		name = string(r[:maxNameRunes])
	}
	pos, err := position.Parse(e.FEN)
	if err != nil {
		return nil, err
	}
	out := *e
	out.Name = name
	out.Owner = strings.TrimSpace(e.Owner)
	out.FEN = pos.FEN()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	return &out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
