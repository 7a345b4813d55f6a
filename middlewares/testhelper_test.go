package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/urls"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type views func(r internal.Registrar)

func (f views) Views(r internal.Registrar) { f(r) }

func testMapping(t *testing.T) *urls.Mapping {
	t.Helper()

	m, err := urls.New(map[string]string{
		"site": "/",
		"blog": "/blog",
	}, nil)
	require.NoError(t, err)
	return m
}

// newTestApp builds an app with a root "index" view, a public root "open"
// view, a private blog "index" view and a hidden "_secret" view.
func newTestApp(t *testing.T, h internal.HandlerFunc, opts ...internal.Option) *internal.App {
	t.Helper()

	if h == nil {
		h = func(c internal.Context) error { return c.String(http.StatusOK, "ok") }
	}
	opts = append([]internal.Option{
		internal.WithURLMapping(testMapping(t)),
		internal.WithHandlers(views(func(r internal.Registrar) {
			r.View("index", h)
			r.View("open", h, internal.Public(true))
			r.View("_secret", h)
		})),
		internal.WithViews("blog", views(func(r internal.Registrar) {
			r.View("index", h, internal.Public(false))
		})),
	}, opts...)

	app, err := internal.New(opts...)
	require.NoError(t, err)
	return app
}

// serve runs req through an app using mws as its middleware chain.
func serve(t *testing.T, req *http.Request, h internal.HandlerFunc, mws []internal.Middleware, opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	app := newTestApp(t, h, append(opts, internal.WithMiddleware(mws...))...)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// newTestContext returns the Context created by a real app for req.
// The request has been dispatched already; writes go to w.
func newTestContext(t *testing.T, w http.ResponseWriter, req *http.Request, opts ...internal.Option) internal.Context {
	t.Helper()

	var captured internal.Context
	app := newTestApp(t, func(c internal.Context) error {
		captured = c
		return nil
	}, opts...)
	app.ServeHTTP(w, req)
	require.NotNil(t, captured, "request did not reach a view")
	return captured
}

func install(key, value any) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(key, value)
			return next(c)
		}
	}
}
