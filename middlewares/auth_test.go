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

// authApp serves "/login" (public, signs in "ana"), "/open" (public) and
// "/" (private) behind Errors and Auth.
func authApp(t *testing.T, opts ...middlewares.AuthOption) *internal.App {
	t.Helper()

	ok := func(c internal.Context) error {
		return c.String(http.StatusOK, "user="+c.User())
	}
	app, err := internal.New(
		internal.WithURLMapping(testMapping(t)),
		internal.WithCookieOptions(cookie.WithSecret(testSecret)),
		internal.WithSession(session.NewMemoryStore()),
		internal.WithHandlers(views(func(r internal.Registrar) {
			r.View("index", ok)
			r.View("open", ok, internal.Public(true))
			r.View("login", func(c internal.Context) error {
				if err := c.AuthenticateSession("ana"); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			}, internal.Public(true))
		})),
		internal.WithMiddleware(middlewares.Errors(), middlewares.Auth(opts...)),
	)
	require.NoError(t, err)
	return app
}

func TestAuth(t *testing.T) {
	t.Parallel()

	t.Run("public view", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		authApp(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "user=", w.Body.String())
	})

	t.Run("private view", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		authApp(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("default public", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		authApp(t, middlewares.WithAuthDefaultPublic(true)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login redirect", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		authApp(t, middlewares.WithAuthLoginURL("blog:/sign-in")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/blog/sign-in", w.Header().Get("Location"))
	})

	t.Run("xhr", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "application/json")

		w := httptest.NewRecorder()
		authApp(t, middlewares.WithAuthLoginURL("site:/login")).ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"code":-32001`)
	})

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()
		app := authApp(t)

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w = httptest.NewRecorder()
		app.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "user=ana", w.Body.String())
	})

	t.Run("requires sessions", func(t *testing.T) {
		t.Parallel()
		var got error
		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, []internal.Middleware{
			capture(&got),
			middlewares.Auth(),
		})
		require.ErrorIs(t, got, middlewares.ErrMisconfigured)
	})
}
