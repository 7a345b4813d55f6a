package middlewares

import (
	"slices"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/i18n"
)

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	Extractor     internal.Extractor
	DefaultLocale string
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithDefaultLocale sets the locale used when the request names no other.
func WithDefaultLocale(code string) LocaleOption {
	return func(cfg *LocaleConfig) {
		if code != "" {
			cfg.DefaultLocale = code
		}
	}
}

// WithLocaleExtractor replaces the chain reading an explicit language choice.
func WithLocaleExtractor(ext internal.Extractor) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Extractor = ext
	}
}

// DefaultLocaleExtractor reads an explicit language choice from the "lang"
// query parameter, then the "lang" cookie, then the "locale" session value.
func DefaultLocaleExtractor() internal.Extractor {
	return internal.NewExtractor(
		internal.FromQuery("lang"),
		internal.FromCookie("lang"),
		internal.FromSession("locale"),
	)
}

// Locale returns middleware creating the request translation manager.
// The locale list is the explicit choice found by the extractor, if any,
// followed by the Accept-Language locales and the default locale.
func Locale(catalog *i18n.Catalog, opts ...LocaleOption) internal.Middleware {
	cfg := &LocaleConfig{
		Extractor:     DefaultLocaleExtractor(),
		DefaultLocale: i18n.DefaultLocale,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			locales := i18n.HTTPLocales(c.Header("Accept-Language"), cfg.DefaultLocale)
			if lang, ok := cfg.Extractor.Extract(c); ok {
				lang = i18n.ToPOSIX(lang)
				locales = slices.DeleteFunc(locales, func(code string) bool { return code == lang })
				locales = append([]string{lang}, locales...)
			}

			tm := i18n.NewTranslationManager(catalog, locales)
			c.Set(internal.TranslationKey{}, tm)
			c.Set(internal.LocaleKey{}, tm.Locale())
			c.LogDebug("using locale", "locale", tm.Locale())

			return next(c)
		}
	}
}
