package session

import (
	"fmt"
	"maps"
	"time"
)

// Session is the server side state of one browser session.
type Session struct {
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time

	// UserID holds the name of the signed in user. nil means anonymous.
	UserID *string
	Values map[string]any

	ID        string // stable identifier exposed as SESSION_ID
	Token     string // cookie value, rotated on sign in
	IP        string
	UserAgent string

	dirty bool
	isNew bool
}

// New creates a session that has not been persisted yet.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// User returns the signed in user name or "".
func (s *Session) User() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return *s.UserID
}

// SetUser signs user in.
func (s *Session) SetUser(user string) {
	s.UserID = &user
	s.dirty = true
}

// ClearUser signs the user out and keeps the other values.
func (s *Session) ClearUser() {
	if s.UserID != nil {
		s.UserID = nil
		s.dirty = true
	}
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue returns a stored value.
func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value. The session becomes dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether the session is past its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a copy with its own Values map.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	if s.UserID != nil {
		user := *s.UserID
		c.UserID = &user
	}
	return &c
}

// Value returns a typed session value.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w for key %q", ErrTypeMismatch, key)
	}
	return typed, nil
}

// ValueOr returns a typed session value or def when it is missing or of another type.
func ValueOr[T any](s *Session, key string, def T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return val
}
