package internal

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/session"
)

const (
	defaultSessionCookieName = "duende_session"
	defaultSessionMaxAge     = 86400 * 14 // 14 days
)

// SessionManager handles session lifecycle and the session cookie.
// The cookie carries the session token, signed when the cookie manager has a secret.
type SessionManager struct {
	store      session.Store
	cookies    *cookie.Manager
	logger     *slog.Logger
	cookieName string
	maxAge     int

	// cookiesSet is true when WithSessionCookies chose the cookie manager.
	cookiesSet bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookies:    cookie.New(),
		logger:     logger.NewNope(),
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session max age in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionCookies sets the cookie manager writing the session cookie.
// A manager with a secret signs the token.
func WithSessionCookies(m *cookie.Manager) SessionOption {
	return func(sm *SessionManager) {
		if m != nil {
			sm.cookies = m
			sm.cookiesSet = true
		}
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// inheritCookies uses the app cookie manager unless one was set explicitly.
func (sm *SessionManager) inheritCookies(m *cookie.Manager) {
	if !sm.cookiesSet && m != nil {
		sm.cookies = m
	}
}

func (sm *SessionManager) mode() cookie.Mode {
	if sm.cookies.HasSecret() {
		return cookie.Signed
	}
	return cookie.Plain
}

// LoadSession loads an existing session from the request cookie.
// Returns nil, nil if no session cookie exists, the cookie was tampered with
// or the session is gone from the store.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := sm.cookies.Read(r, sm.cookieName, sm.mode())
	if errors.Is(err, cookie.ErrNotFound) || token == "" {
		return nil, nil
	}
	if err != nil {
		sm.logger.WarnContext(ctx, "invalid session cookie", slog.String("error", err.Error()))
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		sm.logger.DebugContext(ctx, "stale session cookie", slog.String("error", err.Error()))
		return nil, nil
	}
	return sess, err
}

// CreateSession creates a new session with metadata extracted from the request.
func (sm *SessionManager) CreateSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	sess := session.New(uuid.NewString(), rand.Text(), time.Now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.IP = remoteIP(r)
	sess.UserAgent = r.UserAgent()

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sess.ClearNew()
	sess.ClearDirty()

	return sess, nil
}

// SaveSession writes the session cookie to the response.
func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) error {
	return sm.cookies.Write(w, sm.cookieName, sess.Token, sm.maxAge, sm.mode())
}

// RotateToken generates a new token for the session.
// Called after authentication so a token known before sign in stops working.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	old := sess.Token
	sess.Token = rand.Text()
	sess.MarkDirty()
	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = old
		return err
	}
	return nil
}

// DeleteSession clears the session cookie.
func (sm *SessionManager) DeleteSession(w http.ResponseWriter) {
	sm.cookies.Delete(w, sm.cookieName)
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// remoteIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
