package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/jsonrpc"
	"github.com/dmitrymomot/duende/pkg/session"
)

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	// LoginURL receives anonymous browsers asking for a private view.
	// It may use the "app:/path" form of the url mapping.
	LoginURL string

	// DefaultPublic is the visibility of views registered without Public.
	DefaultPublic bool
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthLoginURL sets the login page anonymous users are redirected to.
func WithAuthLoginURL(u string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.LoginURL = u
	}
}

// WithAuthDefaultPublic sets the visibility of views that do not declare it.
func WithAuthDefaultPublic(public bool) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.DefaultPublic = public
	}
}

// Auth returns middleware guarding private views with the session user.
//
// An anonymous request for a private view gets a JSON-RPC Unauthorized error
// when it is XHR and accepts JSON, a redirect to the login URL when one is
// configured, and 401 otherwise. The session ID and the user name are
// published for the rest of the chain (internal.SessionIDKey, internal.RemoteUserKey).
func Auth(opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			view, err := c.Resolve()
			if err != nil {
				return err
			}

			sess, err := c.Session()
			if errors.Is(err, session.ErrNotConfigured) {
				return fmt.Errorf("%w: auth requires the session manager", ErrMisconfigured)
			}
			if err != nil {
				return err
			}

			var user string
			if sess != nil {
				user = sess.User()
				c.Set(internal.SessionIDKey{}, sess.ID)
			}

			if user == "" && !view.View.IsPublic(cfg.DefaultPublic) {
				return cfg.unauthorized(c)
			}

			if user != "" {
				c.Set(internal.RemoteUserKey{}, user)
			}
			return next(c)
		}
	}
}

func (cfg *AuthConfig) unauthorized(c internal.Context) error {
	c.LogInfo("unauthorized request", "remote_addr", c.Request().RemoteAddr)

	if c.WantsJSON() {
		return jsonrpc.Unauthorized(nil)
	}
	if cfg.LoginURL != "" {
		target, err := c.URL(cfg.LoginURL)
		if err != nil {
			return err
		}
		c.LogDebug("redirecting to login page", "url", target)
		return c.Redirect(http.StatusFound, target)
	}
	return internal.ErrUnauthorized("")
}
