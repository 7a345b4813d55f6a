package duende_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende"
	"github.com/dmitrymomot/duende/pkg/logger"
)

type views func(r duende.Registrar)

func (f views) Views(r duende.Registrar) { f(r) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// testConfig lays out a project with a root "site" app and a "blog" app.
func testConfig(t *testing.T) duende.Config {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "urls.ini"), "[apps]\nsite = /\nblog = /blog\n")
	res := filepath.Join(dir, "resources")
	writeFile(t, filepath.Join(res, "site", "templates", "hello.html"), `<p>{{ _ "Hello" }}</p>`)
	writeFile(t, filepath.Join(res, "site", "locale", "es.yaml"), "Hello: Hola\n")
	writeFile(t, filepath.Join(res, "site", "static", "robots.txt"), "User-agent: *\n")

	return duende.Config{
		Log:               logger.Config{Level: "error", Format: "text"},
		URLFile:           filepath.Join(dir, "urls.ini"),
		ResourcesDir:      res,
		DefaultLocale:     "en_US",
		AuthLoginURL:      "site:/login",
		CookieSecret:      "0123456789abcdef0123456789abcdef",
		UploadMaxSize:     1 << 10,
		SessionMaxAge:     3600,
		AuthDefaultPublic: true,
	}
}

func newApp(t *testing.T, cfg duende.Config) *duende.App {
	t.Helper()

	app, err := duende.NewApp(cfg, duende.Services{},
		duende.WithHandlers(views(func(r duende.Registrar) {
			r.View("index", func(c duende.Context) error {
				return c.RenderTemplate(http.StatusOK, "site/hello.html", nil)
			})
			r.View("login", func(c duende.Context) error {
				if err := c.AuthenticateSession("ana"); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			})
			r.View("boom", func(duende.Context) error { panic("boom") })
		})),
		duende.WithViews("blog", views(func(r duende.Registrar) {
			r.View("index", func(c duende.Context) error {
				return c.String(http.StatusOK, "hi "+c.User())
			}, duende.Public(false))
		})),
	)
	require.NoError(t, err)
	return app
}

func TestNewApp(t *testing.T) {
	t.Parallel()

	app := newApp(t, testConfig(t))

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)
		return w
	}

	t.Run("translated template", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "es")
		w := serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<p>Hola</p>", w.Body.String())
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("default locale", func(t *testing.T) {
		t.Parallel()
		w := serve(httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "<p>Hello</p>", w.Body.String())
	})

	t.Run("static file", func(t *testing.T) {
		t.Parallel()
		w := serve(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "User-agent: *\n", w.Body.String())
	})

	t.Run("unknown view", func(t *testing.T) {
		t.Parallel()
		w := serve(httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		w := serve(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("private view redirects to login", func(t *testing.T) {
		t.Parallel()
		w := serve(httptest.NewRequest(http.MethodGet, "/blog/", nil))
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()
		login := serve(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusNoContent, login.Code)
		require.NotEmpty(t, login.Result().Cookies())

		req := httptest.NewRequest(http.MethodGet, "/blog/", nil)
		for _, ck := range login.Result().Cookies() {
			req.AddCookie(ck)
		}
		w := serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "hi ana", w.Body.String())
	})
}

func TestNewApp_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing url file", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.URLFile = filepath.Join(t.TempDir(), "urls.ini")
		_, err := duende.NewApp(cfg, duende.Services{})
		require.Error(t, err)
	})

	t.Run("views of a disabled app", func(t *testing.T) {
		t.Parallel()
		_, err := duende.NewApp(testConfig(t), duende.Services{},
			duende.WithViews("shop", views(func(r duende.Registrar) {
				r.View("index", func(duende.Context) error { return nil })
			})),
		)
		require.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DUENDE_DEBUG", "true")
	t.Setenv("DUENDE_URL_PREFIX", "/app")
	t.Setenv("DUENDE_REQUEST_TIMEOUT", "5s")
	t.Setenv("DUENDE_LOG_LEVEL", "debug")

	cfg, err := duende.LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, "/app", cfg.URLPrefix)
	require.Equal(t, "5s", cfg.RequestTimeout.String())
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "en_US", cfg.DefaultLocale)
	require.Equal(t, int64(10<<20), cfg.UploadMaxSize)
	require.True(t, cfg.AuthDefaultPublic)
}
