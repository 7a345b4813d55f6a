package handlers

import (
	"embed"
	"io/fs"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/duende"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsFS returns the goose migrations of the guestbook table.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Entry is a guestbook message.
type Entry struct {
	Created time.Time `json:"created" db:"created_at"`
	Name    string    `json:"name"    db:"name"`
	Message string    `json:"message" db:"message"`
}

// Store keeps guestbook entries. List returns newest entries first.
type Store interface {
	Add(c duende.Context, e Entry) error
	List(c duende.Context, offset, limit int) ([]Entry, error)
}

// MemoryStore is a Store for a single process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func (s *MemoryStore) Add(_ duende.Context, e Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ duende.Context, offset, limit int) ([]Entry, error) {
	s.mu.RLock()
	out := slices.Clone(s.entries)
	s.mu.RUnlock()

	slices.Reverse(out)
	start := min(offset, len(out))
	return out[start:min(start+limit, len(out))], nil
}

// PostgresStore uses the request database session, so the Database
// middleware must be in the chain.
type PostgresStore struct{}

func (PostgresStore) Add(c duende.Context, e Entry) error {
	conn, err := c.DB()
	if err != nil {
		return err
	}
	return conn.Tx(c, func(tx pgx.Tx) error {
		_, err := tx.Exec(c,
			`INSERT INTO guestbook_entries (name, message, created_at) VALUES ($1, $2, $3)`,
			e.Name, e.Message, e.Created)
		return err
	})
}

func (PostgresStore) List(c duende.Context, offset, limit int) ([]Entry, error) {
	conn, err := c.DB()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(c,
		`SELECT name, message, created_at FROM guestbook_entries ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Entry])
}
