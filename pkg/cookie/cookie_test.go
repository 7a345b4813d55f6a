package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/cookie"
)

const secret = "0123456789abcdef0123456789abcdef"

// roundTrip writes a cookie and returns a request carrying it back.
func roundTrip(t *testing.T, m *cookie.Manager, name, value string, mode cookie.Mode) (*http.Request, *http.Cookie) {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, m.Write(w, name, value, 60, mode))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	return r, cookies[0]
}

func TestManager(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret(secret), cookie.WithDomain("example.com"), cookie.WithSecure(true))

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		_, c := roundTrip(t, m, "lang", "es", cookie.Plain)
		require.Equal(t, "/", c.Path)
		require.Equal(t, "example.com", c.Domain)
		require.True(t, c.Secure)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
		require.Equal(t, 60, c.MaxAge)
	})

	modes := map[string]cookie.Mode{"plain": cookie.Plain, "signed": cookie.Signed, "encrypted": cookie.Encrypted}
	for name, mode := range modes {
		t.Run(name+" round trip", func(t *testing.T) {
			t.Parallel()

			r, c := roundTrip(t, m, "v", "hello_world", mode)
			got, err := m.Read(r, "v", mode)
			require.NoError(t, err)
			require.Equal(t, "hello_world", got)
			if mode == cookie.Encrypted {
				require.NotContains(t, c.Value, "hello")
			}
		})
	}

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		_, err := m.Read(httptest.NewRequest(http.MethodGet, "/", nil), "nope", cookie.Plain)
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		_, c := roundTrip(t, m, "sid", "token", cookie.Signed)
		value, _, _ := strings.Cut(c.Value, ".")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: value + ".AAAA"})
		_, err := m.Read(r, "sid", cookie.Signed)
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("garbage ciphertext", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "x", Value: "abc"})
		_, err := m.Read(r, "x", cookie.Encrypted)
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		m.Delete(w, "lang")
		c := w.Result().Cookies()[0]
		require.Equal(t, "lang", c.Name)
		require.Negative(t, c.MaxAge)
	})
}

func TestManager_NoSecret(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret("too short"))
	require.False(t, m.HasSecret())

	w := httptest.NewRecorder()
	require.ErrorIs(t, m.Write(w, "a", "b", 0, cookie.Signed), cookie.ErrNoSecret)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Read(r, "a", cookie.Encrypted)
	require.ErrorIs(t, err, cookie.ErrNoSecret)

	require.NoError(t, m.Write(w, "a", "b", 0, cookie.Plain))
}
