package internal_test

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/flash"
	"github.com/dmitrymomot/duende/pkg/i18n"
	"github.com/dmitrymomot/duende/pkg/session"
	"github.com/dmitrymomot/duende/pkg/template"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// install returns a middleware storing value under key.
func install(key, value any) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(key, value)
			return next(c)
		}
	}
}

func TestContext_Responses(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) {
			require.NoError(t, c.JSON(http.StatusCreated, map[string]int{"id": 1}))
			require.True(t, c.Written())
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		require.JSONEq(t, `{"id":1}`, w.Body.String())
	})

	t.Run("json is indented in debug", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, []internal.Option{internal.WithDebug(true)}, func(c internal.Context) {
			require.True(t, c.Debug())
			require.NoError(t, c.JSON(http.StatusOK, map[string]int{"id": 1}))
		})
		require.Contains(t, w.Body.String(), "\n  \"id\": 1")
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) {
			u, err := c.URL("blog:/posts/%d", 4)
			require.NoError(t, err)
			require.NoError(t, c.Redirect(http.StatusSeeOther, u))
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/blog/posts/4", w.Header().Get("Location"))
	})

	t.Run("request classification", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "application/json")
		requestVia(t, req, nil, func(c internal.Context) {
			require.True(t, c.IsXHR())
			require.True(t, c.WantsJSON())
		})
	})
}

func TestContext_Cookies(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{internal.WithCookieOptions(cookie.WithSecret(testSecret))}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := requestVia(t, req, opts, func(c internal.Context) {
		require.NoError(t, c.SetCookie("plain", "a", 0))
		require.NoError(t, c.SetCookieSigned("signed", "b", 0))
		require.NoError(t, c.SetCookieEncrypted("sealed", "c", 0))
		_ = c.NoContent(http.StatusNoContent)
	})

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	requestVia(t, req, opts, func(c internal.Context) {
		v, err := c.Cookie("plain")
		require.NoError(t, err)
		require.Equal(t, "a", v)

		v, err = c.CookieSigned("signed")
		require.NoError(t, err)
		require.Equal(t, "b", v)

		v, err = c.CookieEncrypted("sealed")
		require.NoError(t, err)
		require.Equal(t, "c", v)

		_, err = c.CookieSigned("plain")
		require.Error(t, err)
	})
}

func TestContext_Session(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	opts := []internal.Option{
		internal.WithCookieOptions(cookie.WithSecret(testSecret)),
		internal.WithSession(store),
	}

	send := func(cookies []*http.Cookie, fn func(c internal.Context)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		return requestVia(t, req, opts, fn)
	}

	w := send(nil, func(c internal.Context) {
		sess, err := c.Session()
		require.NoError(t, err)
		require.Nil(t, sess)
		require.Empty(t, c.User())

		require.NoError(t, c.SetSessionValue("theme", "dark"))
		require.NotEmpty(t, c.SessionID())
		_ = c.String(http.StatusOK, "ok")
	})
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, 1, store.Len())

	w = send(cookies, func(c internal.Context) {
		v, err := c.SessionValue("theme")
		require.NoError(t, err)
		require.Equal(t, "dark", v)

		require.NoError(t, c.AuthenticateSession("ana"))
		require.Equal(t, "ana", c.User())
	})
	rotated := w.Result().Cookies()
	require.NotEmpty(t, rotated)
	require.NotEqual(t, cookies[0].Value, rotated[0].Value)

	send(rotated, func(c internal.Context) {
		require.Equal(t, "ana", c.User())
		require.NoError(t, c.DestroySession())
		require.Empty(t, c.User())
	})
	require.Equal(t, 0, store.Len())

	t.Run("old token is rejected", func(t *testing.T) {
		send(cookies, func(c internal.Context) {
			sess, err := c.Session()
			require.NoError(t, err)
			require.Nil(t, sess)
		})
	})

	t.Run("not configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			_, err := c.Session()
			require.ErrorIs(t, err, session.ErrNotConfigured)
			require.ErrorIs(t, c.InitSession(), session.ErrNotConfigured)
		})
	})
}

func TestContext_Services(t *testing.T) {
	t.Parallel()

	t.Run("missing middlewares", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			_, err := c.Flash()
			require.ErrorIs(t, err, internal.ErrFlashNotEnabled)
			_, err = c.DB()
			require.ErrorIs(t, err, internal.ErrDatabaseNotActive)
			_, err = c.Template()
			require.ErrorIs(t, err, internal.ErrNotConfigured)
			require.Nil(t, c.Translations())
			require.Equal(t, i18n.DefaultLocale, c.Locale())
		})
	})

	t.Run("gettext without translations", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			require.Equal(t, "Hi Ana", c.Gettext("Hi %(name)s", i18n.M{"name": "Ana"}))
			require.Equal(t, "3 posts", c.NGettext("%(num)d post", "%(num)d posts", 3))
			require.Equal(t, "1 post", c.NGettext("%(num)d post", "%(num)d posts", 1))
		})
	})

	t.Run("gettext uses the app domain", func(t *testing.T) {
		t.Parallel()
		catalog, err := i18n.New(
			i18n.WithMessages("es", "site", map[string]any{"Hello": "Hola"}),
			i18n.WithMessages("es", "blog", map[string]any{"Hello": "Hola blog"}),
		)
		require.NoError(t, err)
		tm := i18n.NewTranslationManager(catalog, []string{"es_ES", "en_US"})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, []internal.Option{internal.WithMiddleware(install(internal.TranslationKey{}, tm))}, func(c internal.Context) {
			require.Equal(t, "Hola", c.Gettext("Hello"))
			require.Equal(t, "es_ES", c.Locale())
			require.NotEmpty(t, c.FormatNumber(1234.5))
		})
	})

	t.Run("flash", func(t *testing.T) {
		t.Parallel()
		f := flash.Load(session.New("id", "token", timeFar()))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, []internal.Option{internal.WithMiddleware(install(internal.FlashKey{}, f))}, func(c internal.Context) {
			got, err := c.Flash()
			require.NoError(t, err)
			require.Same(t, f, got)
		})
	})

	t.Run("render template", func(t *testing.T) {
		t.Parallel()
		env, err := template.New(map[string]fs.FS{
			"site": fstest.MapFS{
				"hello.html": {Data: []byte(`<p>Hi {{.}}</p>`)},
				"feed.xml":   {Data: []byte(`<feed>{{.}}</feed>`)},
			},
		})
		require.NoError(t, err)

		opts := []internal.Option{internal.WithMiddleware(install(internal.TemplateKey{}, env))}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, opts, func(c internal.Context) {
			require.NoError(t, c.RenderTemplate(http.StatusOK, "site:hello.html", "<Ana>"))
		})
		require.Equal(t, "<p>Hi &lt;Ana&gt;</p>", w.Body.String())
		require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		w = requestVia(t, req, opts, func(c internal.Context) {
			require.NoError(t, c.RenderTemplate(http.StatusOK, "site/feed.xml", "x"))
		})
		require.Contains(t, w.Header().Get("Content-Type"), "xml")

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, opts, func(c internal.Context) {
			err := c.RenderTemplate(http.StatusOK, "site/missing.html", nil)
			require.ErrorIs(t, err, template.ErrTemplateNotFound)
			require.False(t, c.Written())
		})
	})
}
