package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/middlewares"
	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/session"
)

func withSessions(store session.Store) []internal.Option {
	return []internal.Option{
		internal.WithCookieOptions(cookie.WithSecret(testSecret)),
		internal.WithSession(store),
	}
}

func TestRequestContext(t *testing.T) {
	t.Parallel()

	t.Run("misconfigured", func(t *testing.T) {
		t.Parallel()
		var got error
		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil,
			[]internal.Middleware{capture(&got), middlewares.RequestContext()})
		require.ErrorIs(t, got, middlewares.ErrMisconfigured)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		var sid string
		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c internal.Context) error {
			sid = c.SessionID()
			return c.NoContent(http.StatusNoContent)
		}, []internal.Middleware{middlewares.RequestContext()}, withSessions(session.NewMemoryStore())...)
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, sid)
		require.Empty(t, w.Result().Cookies())
	})
}

func TestFlash(t *testing.T) {
	t.Parallel()

	t.Run("misconfigured", func(t *testing.T) {
		t.Parallel()
		var got error
		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil,
			[]internal.Middleware{capture(&got), middlewares.Flash()})
		require.ErrorIs(t, got, middlewares.ErrMisconfigured)
	})

	t.Run("no session until a message is queued", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c internal.Context) error {
			f, err := c.Flash()
			if err != nil {
				return err
			}
			require.Zero(t, f.Count())
			return c.NoContent(http.StatusNoContent)
		}, []internal.Middleware{middlewares.Flash()}, withSessions(store)...)
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Result().Cookies())
		require.Zero(t, store.Len())
	})

	t.Run("messages survive one redirect", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		var shown []string
		app := newTestApp(t, func(c internal.Context) error {
			f, err := c.Flash()
			if err != nil {
				return err
			}
			if c.Request().URL.Path == "/open" {
				f.Add("Post saved")
				return c.Redirect(http.StatusFound, "/")
			}
			shown = f.Messages()
			return c.NoContent(http.StatusNoContent)
		}, append(withSessions(store), internal.WithMiddleware(middlewares.Flash()))...)

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/open", nil))
		require.Equal(t, http.StatusFound, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		require.Equal(t, 1, store.Len())

		next := func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, ck := range cookies {
				req.AddCookie(ck)
			}
			app.ServeHTTP(httptest.NewRecorder(), req)
		}

		next()
		require.Equal(t, []string{"Post saved"}, shown)

		next()
		require.Empty(t, shown)
	})
}

func TestResolveView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		status int
		view   string
	}{
		{path: "/", status: http.StatusOK, view: "site.root.index"},
		{path: "/open", status: http.StatusOK, view: "site.root.open"},
		{path: "/blog/", status: http.StatusOK, view: "blog.root.index"},
		{path: "/missing", status: http.StatusNotFound},
		{path: "/_secret", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			var seen string
			w := serve(t, httptest.NewRequest(http.MethodGet, tt.path, nil), nil, []internal.Middleware{
				middlewares.Errors(),
				middlewares.ResolveView(),
				func(next internal.HandlerFunc) internal.HandlerFunc {
					return func(c internal.Context) error {
						seen = c.View().String()
						return next(c)
					}
				},
			})
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, tt.view, seen)
		})
	}
}
