package session

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
)

// Store persists sessions.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get loads a session by cookie token.
	// Returns ErrNotFound or ErrExpired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves a session, including a rotated token.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session of a user.
	DeleteByUserID(ctx context.Context, userID string) error

	// Touch records activity without rewriting the values.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}

// Cleaner is implemented by stores that need expired sessions purged
// by a periodic task. Stores with native expiry do not implement it.
type Cleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// record is the serialized form of a Session.
type record struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       *string        `json:"user_id,omitempty"`
	Values       map[string]any `json:"values,omitempty"`
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
}

func toRecord(s *Session) record {
	return record{
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
		UserID:       s.UserID,
		Values:       s.Values,
		ID:           s.ID,
		Token:        s.Token,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
	}
}

func (r record) session() *Session {
	values := r.Values
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{
		CreatedAt:    r.CreatedAt,
		LastActiveAt: r.LastActiveAt,
		ExpiresAt:    r.ExpiresAt,
		UserID:       r.UserID,
		Values:       values,
		ID:           r.ID,
		Token:        r.Token,
		IP:           r.IP,
		UserAgent:    r.UserAgent,
	}
}

// encodeValues serializes session values with JSON types, so maps and
// slices come back as map[string]any and []any.
func encodeValues(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}
	return sonic.ConfigStd.Marshal(values)
}

func decodeValues(data []byte) (map[string]any, error) {
	values := make(map[string]any)
	if len(data) == 0 {
		return values, nil
	}
	if err := sonic.ConfigStd.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
