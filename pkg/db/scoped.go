package db

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is a database connection borrowed for the lifetime of one request.
// *pgxpool.Conn implements it.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Release()
}

// AcquireFunc borrows a connection.
type AcquireFunc func(ctx context.Context) (Conn, error)

// PoolAcquirer adapts a pool to AcquireFunc.
func PoolAcquirer(pool *pgxpool.Pool) AcquireFunc {
	return func(ctx context.Context) (Conn, error) {
		if pool == nil {
			return nil, ErrNoPool
		}
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Scoped is a request scoped database session.
// The connection is acquired on first use and returned to the pool by Release.
// Every request gets its own Scoped, so sessions never leak between requests.
type Scoped struct {
	mu       sync.Mutex
	acquire  AcquireFunc
	conn     Conn
	released bool
}

// NewScoped creates a session that acquires connections with acquire.
func NewScoped(acquire AcquireFunc) *Scoped {
	return &Scoped{acquire: acquire}
}

// Conn returns the session connection, acquiring it when needed.
func (s *Scoped) Conn(ctx context.Context) (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	if s.conn != nil {
		return s.conn, nil
	}
	if s.acquire == nil {
		return nil, ErrNoPool
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

// Acquired reports whether a connection is currently held.
func (s *Scoped) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Exec runs a statement on the session connection.
func (s *Scoped) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, sql, args...)
}

// Query runs a query on the session connection.
func (s *Scoped) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Query(ctx, sql, args...)
}

// QueryRow runs a single row query. Acquire errors surface from Scan.
func (s *Scoped) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := s.Conn(ctx)
	if err != nil {
		return errRow{err}
	}
	return conn.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction on the session connection.
func (s *Scoped) Begin(ctx context.Context) (pgx.Tx, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Begin(ctx)
}

// Tx runs fn in a transaction on the session connection. It commits when fn
// returns nil and rolls back when fn fails or panics; panics are re-raised.
func (s *Scoped) Tx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release returns the connection to the pool. It is safe to call more than once.
func (s *Scoped) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}
	s.released = true
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
