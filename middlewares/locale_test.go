package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/middlewares"
	"github.com/dmitrymomot/duende/pkg/i18n"
)

func TestLocale(t *testing.T) {
	t.Parallel()

	catalog, err := i18n.New(
		i18n.WithMessages("es", "site", map[string]any{"Hello": "Hola"}),
		i18n.WithMessages("fr", "site", map[string]any{"Hello": "Bonjour"}),
	)
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  string
		cookie string
		header string
		opts   []middlewares.LocaleOption
		locale string
		hello  string
	}{
		{name: "default", locale: "en_US", hello: "Hello"},
		{name: "custom default", opts: []middlewares.LocaleOption{middlewares.WithDefaultLocale("fr_FR")}, locale: "fr_FR", hello: "Bonjour"},
		{name: "accept-language", header: "es-ar,es;q=0.8", locale: "es_AR", hello: "Hola"},
		{name: "cookie beats header", cookie: "fr", header: "es", locale: "fr", hello: "Bonjour"},
		{name: "query beats cookie", query: "es-MX", cookie: "fr", locale: "es_MX", hello: "Hola"},
		{
			name:   "custom extractor",
			query:  "fr",
			opts:   []middlewares.LocaleOption{middlewares.WithLocaleExtractor(internal.NewExtractor(internal.FromHeader("X-Lang")))},
			locale: "en_US",
			hello:  "Hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := "/"
			if tt.query != "" {
				target += "?lang=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}

			var locale, hello string
			serve(t, req, func(c internal.Context) error {
				locale = c.Locale()
				hello = c.Gettext("Hello")
				return nil
			}, []internal.Middleware{middlewares.Locale(catalog, tt.opts...)})

			require.Equal(t, tt.locale, locale)
			require.Equal(t, tt.hello, hello)
		})
	}

	t.Run("explicit locale is not repeated", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?lang=es", nil)
		req.Header.Set("Accept-Language", "fr,es;q=0.5")

		var locales []string
		serve(t, req, func(c internal.Context) error {
			locales = c.Translations().Locales()
			return nil
		}, []internal.Middleware{middlewares.Locale(catalog)})
		require.Equal(t, []string{"es", "fr", "en_US"}, locales)
	})
}
