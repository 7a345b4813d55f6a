package resource_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/resource"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri    string
		scheme string
		target string
		err    error
	}{
		{uri: "url:blog:index", scheme: "url", target: "blog:index"},
		{uri: "call:blog.feed#rss", scheme: "call", target: "blog.feed#rss"},
		{uri: "egg:site#robots.txt", scheme: "egg", target: "site#robots.txt"},
		{uri: "ftp:x", err: resource.ErrUnknownScheme},
		{uri: "nocolon", err: resource.ErrInvalidURI},
		{uri: "url:", err: resource.ErrInvalidURI},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			t.Parallel()
			u, err := resource.Parse(tt.uri)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, u.Scheme)
			assert.Equal(t, tt.target, u.Target)
			assert.Equal(t, tt.uri, u.String())
		})
	}
}

func TestURIParts(t *testing.T) {
	t.Parallel()

	u, err := resource.Parse("call:blog.feed#rss")
	require.NoError(t, err)
	module, view, err := u.Call()
	require.NoError(t, err)
	assert.Equal(t, "blog.feed", module)
	assert.Equal(t, "rss", view)

	u, err = resource.Parse("egg:site#css/main.css")
	require.NoError(t, err)
	app, file, err := u.Egg()
	require.NoError(t, err)
	assert.Equal(t, "site", app)
	assert.Equal(t, "css/main.css", file)

	u, err = resource.Parse("call:blog.feed")
	require.NoError(t, err)
	_, _, err = u.Call()
	require.ErrorIs(t, err, resource.ErrInvalidURI)
}

func TestDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shop", "admin", "static"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog", "templates"), 0o755))

	assert.Equal(t, filepath.Join(root, "shop", "admin"), resource.Dir(root, "shop.admin"))
	assert.Equal(t, filepath.Join(root, "blog", "static"), resource.Sub(root, "blog", resource.StaticDir))

	dirs := resource.Dirs(root, []string{"blog", "shop.admin"}, resource.StaticDir)
	assert.Equal(t, map[string]string{"shop.admin": filepath.Join(root, "shop", "admin", "static")}, dirs)
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a.css":   "text/css; charset=utf8",
		"a.html":  "text/html; charset=utf8",
		"a.xml":   "text/xml; charset=utf8",
		"a.png":   "image/png",
		"a.bogus": "application/octet-stream",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, resource.ContentType(name))
		})
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	first := fstest.MapFS{
		"css/site.css": {Data: []byte("body{}")},
		"logo.png":     {Data: []byte("png")},
	}
	second := fstest.MapFS{
		"css/site.css": {Data: []byte("shadowed")},
		"js/app.js":    {Data: []byte("run()")},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := resource.Static(next, first, second)

	t.Run("first root wins", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/site.css", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Equal(t, "text/css; charset=utf8", rec.Header().Get("Content-Type"))
	})

	t.Run("falls through roots", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/js/app.js", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run()", rec.Body.String())
	})

	t.Run("missing goes to next", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.txt", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("directories are not listed", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("post is passed on", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logo.png", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("no next handler", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		resource.Static(nil, first).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServeEgg(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "robots.txt"), []byte("User-agent: *"), 0o644))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/robots", nil)
	require.NoError(t, resource.ServeEgg(rec, req, root, "site", "robots.txt"))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "User-agent: *", string(body))
	assert.Equal(t, "text/plain; charset=utf8", rec.Header().Get("Content-Type"))

	err := resource.ServeEgg(httptest.NewRecorder(), req, root, "site", "missing.txt")
	require.ErrorIs(t, err, resource.ErrNotFound)

	err = resource.ServeEgg(httptest.NewRecorder(), req, root, "ghost", "robots.txt")
	require.ErrorIs(t, err, resource.ErrNotFound)

	// Parent segments are cleaned away, so lookups stay inside the app directory.
	err = resource.ServeEgg(httptest.NewRecorder(), req, root, "site", "../site/robots.txt")
	require.ErrorIs(t, err, resource.ErrNotFound)
}
