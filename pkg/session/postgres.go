package session

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsFS returns the goose migrations creating the sessions table.
// Apply them with db.Migrate.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DBTX is implemented by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps sessions in the duende_sessions table.
// Session IDs must be UUIDs. Expired rows are purged by DeleteExpired.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a store using db.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const sessionColumns = `id, token, user_id, ip, user_agent, data, created_at, last_active_at, expires_at`

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	if s.Token == "" {
		return ErrInvalidToken
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("session: id %q is not a uuid: %w", s.ID, err)
	}

	data, err := encodeValues(s.Values)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	_, err = p.db.Exec(ctx,
		`INSERT INTO duende_sessions (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Token, s.UserID, s.IP, s.UserAgent, data, s.CreatedAt, s.LastActiveAt, s.ExpiresAt,
	)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	var (
		s    Session
		id   uuid.UUID
		data []byte
	)

	err := p.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM duende_sessions WHERE token = $1`, token,
	).Scan(&id, &s.Token, &s.UserID, &s.IP, &s.UserAgent, &data, &s.CreatedAt, &s.LastActiveAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.ID = id.String()
	if s.Values, err = decodeValues(data); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return &s, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	data, err := encodeValues(s.Values)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	tag, err := p.db.Exec(ctx,
		`UPDATE duende_sessions
		SET token = $2, user_id = $3, ip = $4, user_agent = $5, data = $6, last_active_at = $7, expires_at = $8
		WHERE id = $1`,
		s.ID, s.Token, s.UserID, s.IP, s.UserAgent, data, s.LastActiveAt, s.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	_, err := p.db.Exec(ctx, `DELETE FROM duende_sessions WHERE id = $1`, id)
	return err
}

func (p *PostgresStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM duende_sessions WHERE user_id = $1`, userID)
	return err
}

func (p *PostgresStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	tag, err := p.db.Exec(ctx, `UPDATE duende_sessions SET last_active_at = $2 WHERE id = $1`, id, lastActiveAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes expired rows and reports how many were deleted.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM duende_sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
