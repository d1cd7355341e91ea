package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS saved_positions (
    id         UUID PRIMARY KEY,
    owner      TEXT NOT NULL,
    name       TEXT NOT NULL,
    fen        TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS saved_positions_owner_created ON saved_positions (owner, created_at DESC)`

// Postgres stores entries in the saved_positions table.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(databaseURL string) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Postgres{db: db, now: time.Now}, nil
}

func (r *Postgres) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Postgres) Save(ctx context.Context, e *Entry) (*Entry, error) {
	entry, err := prepare(e, r.now().UTC())
	if err != nil {
		return nil, err
	}
	// the id column is UUID; anything else cannot match a row
	if !validID(entry.ID) {
		return nil, ErrNotFound
	}
	q := `INSERT INTO saved_positions (id, owner, name, fen, created_at)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (id) DO UPDATE SET
        name=EXCLUDED.name,
        fen=EXCLUDED.fen
      WHERE saved_positions.owner = EXCLUDED.owner`
	res, err := r.db.ExecContext(ctx, q, entry.ID, entry.Owner, entry.Name, entry.FEN, entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (r *Postgres) Get(ctx context.Context, owner, id string) (*Entry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, name, fen, created_at FROM saved_positions WHERE id=$1 AND owner=$2`, id, owner)
	e := &Entry{}
	if err := row.Scan(&e.ID, &e.Owner, &e.Name, &e.FEN, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *Postgres) List(ctx context.Context, owner string, limit int) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, fen, created_at FROM saved_positions
         WHERE owner=$1 ORDER BY created_at DESC LIMIT $2`, owner, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Owner, &e.Name, &e.FEN, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *Postgres) Delete(ctx context.Context, owner, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_positions WHERE id=$1 AND owner=$2`, id, owner)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
