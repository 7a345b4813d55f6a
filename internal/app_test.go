package internal_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
)

type ctxKey struct{}

func TestApp_Pipeline(t *testing.T) {
	t.Parallel()

	var order []string
	track := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				order = append(order, name)
				c.Set(ctxKey{}, name)
				return next(c)
			}
		}
	}

	app := newApp(t,
		internal.WithMiddleware(track("first"), track("second")),
		internal.WithViews("blog", views(func(r internal.Registrar) {
			r.Module("posts", func(r internal.Registrar) {
				r.View("list", func(c internal.Context) error {
					order = append(order, "view")
					require.Equal(t, "blog.posts.list", c.View().String())
					return c.String(http.StatusOK, c.Get(ctxKey{}).(string))
				})
			})
		})),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blog/posts/list", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "second", w.Body.String())
	require.Equal(t, []string{"first", "second", "view"}, order)
}

func TestApp_Errors(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHandlers(views(func(r internal.Registrar) {
		r.View("fail", func(internal.Context) error { return errors.New("boom") })
		r.View("gone", func(c internal.Context) error {
			return c.Error(http.StatusGone, "gone for good", internal.WithHeader("X-Why", "moved"))
		})
	})))

	t.Run("unknown view is 404", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nothing/here", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hidden view is 404", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/_fail", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("plain error is 500", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("http error keeps code and headers", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gone", nil))
		require.Equal(t, http.StatusGone, w.Code)
		require.Equal(t, "moved", w.Header().Get("X-Why"))
		require.Contains(t, w.Body.String(), "gone for good")
	})
}

func TestApp_ErrorHandler(t *testing.T) {
	t.Parallel()

	app := newApp(t,
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			return c.String(http.StatusTeapot, err.Error())
		}),
		internal.WithHandlers(views(func(r internal.Registrar) {
			r.View("fail", func(internal.Context) error { return errors.New("boom") })
		})),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, "boom", w.Body.String())
}

func TestApp_Resources(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site", "static", "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog", "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "logo.txt"), []byte("logo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "static", "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "static", "blog.js"), []byte("var x;"), 0o644))

	app := newApp(t,
		internal.WithResources(root),
		internal.WithHandlers(views(func(r internal.Registrar) {
			r.View("index", func(c internal.Context) error { return c.String(http.StatusOK, "home") })
		})),
		internal.WithViews("blog", views(func(r internal.Registrar) {
			r.Module("posts", func(r internal.Registrar) {
				r.View("list", func(c internal.Context) error { return c.String(http.StatusOK, "posts") })
			})
		})),
	)

	serve := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	t.Run("static cascade", func(t *testing.T) {
		t.Parallel()
		w := serve("/css/site.css")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/css; charset=utf8", w.Header().Get("Content-Type"))

		w = serve("/blog.js")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "var x;", w.Body.String())
	})

	t.Run("views behind static", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "home", serve("/").Body.String())
	})

	t.Run("url resource redirects", func(t *testing.T) {
		t.Parallel()
		w := serve("/old-blog")
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/blog/posts/list", w.Header().Get("Location"))
	})

	t.Run("egg resource", func(t *testing.T) {
		t.Parallel()
		w := serve("/logo.txt")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "logo", w.Body.String())
		require.Equal(t, "text/plain; charset=utf8", w.Header().Get("Content-Type"))
	})
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	app := newApp(t, internal.WithHealthChecks(internal.WithLivenessPath("/live")))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestChain(t *testing.T) {
	t.Parallel()

	var got []string
	mw := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				got = append(got, name)
				return next(c)
			}
		}
	}

	h := internal.Chain(func(internal.Context) error {
		got = append(got, "handler")
		return nil
	}, mw("a"), mw("b"))

	require.NoError(t, h(nil))
	require.Equal(t, []string{"a", "b", "handler"}, got)
}
