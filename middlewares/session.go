package middlewares

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/flash"
	"github.com/dmitrymomot/duende/pkg/session"
)

// RequestContext returns middleware asserting that sessions are enabled and
// loading the request session before the view runs.
func RequestContext() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			sess, err := c.Session()
			if errors.Is(err, session.ErrNotConfigured) {
				return fmt.Errorf("%w: session manager is not enabled", ErrMisconfigured)
			}
			if err != nil {
				return err
			}
			if sess != nil {
				c.Set(internal.SessionIDKey{}, sess.ID)
			}
			return next(c)
		}
	}
}

// Flash returns middleware loading the flash messages of the request.
// A session is only created when a message is queued.
func Flash() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if _, err := c.Session(); errors.Is(err, session.ErrNotConfigured) {
				return fmt.Errorf("%w: flash requires the session manager", ErrMisconfigured)
			}

			c.Set(internal.FlashKey{}, flash.Load(flashStore{c}))
			return next(c)
		}
	}
}

// flashStore is the request session seen by flash. Reads of a missing session
// find nothing; the first write creates the session.
type flashStore struct{ c internal.Context }

func (s flashStore) GetValue(key string) (any, bool) {
	v, err := s.c.SessionValue(key)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func (s flashStore) SetValue(key string, val any) {
	if err := s.c.SetSessionValue(key, val); err != nil {
		s.c.LogWarn("flash not saved", "error", err)
	}
}

// ResolveView returns middleware resolving the view of the request early, so
// middlewares placed after it can read c.View(). Unknown paths stop the chain
// with 404.
func ResolveView() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if _, err := c.Resolve(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
