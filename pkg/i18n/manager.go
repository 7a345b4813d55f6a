package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// TranslationManager translates messages for one request.
// It is created from the request's locale list, most preferred first.
type TranslationManager struct {
	catalog   *Catalog
	locales   []string
	languages []string
	locale    string
	tag       language.Tag
	format    *LocaleFormat
}

// NewTranslationManager creates a manager for locales.
// The first locale that parses as a known language becomes the current locale.
// When none does, the last entry of locales is used, which is the default
// locale for lists built by HTTPLocales.
func NewTranslationManager(catalog *Catalog, locales []string) *TranslationManager {
	if catalog == nil {
		catalog, _ = New()
	}
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	m := &TranslationManager{
		catalog:   catalog,
		locales:   locales,
		languages: ExpandLanguages(locales),
		locale:    locales[len(locales)-1],
		tag:       language.Und,
	}

	for _, code := range locales {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		if _, conf := tag.Base(); conf == language.No {
			continue
		}
		m.locale, m.tag = code, tag
		break
	}

	m.format = FormatFor(m.locale)
	return m
}

// Locales returns the locale list the manager was created with.
func (m *TranslationManager) Locales() []string { return m.locales }

// Languages returns the locales followed by their base languages.
// Translations are searched in this order.
func (m *TranslationManager) Languages() []string { return m.languages }

// Locale returns the POSIX code of the current locale.
func (m *TranslationManager) Locale() string { return m.locale }

// Tag returns the current locale as a language tag.
func (m *TranslationManager) Tag() language.Tag { return m.tag }

// Format returns number and date formatting for the current locale.
func (m *TranslationManager) Format() *LocaleFormat { return m.format }

// Translation returns the translation functions of a domain.
// ErrUnknownDomain is returned when the domain has no locale directory.
func (m *TranslationManager) Translation(domain string) (*Translation, error) {
	if !m.catalog.HasDomain(domain) {
		return nil, fmt.Errorf("%w %s", ErrUnknownDomain, domain)
	}
	return &Translation{manager: m, domain: domain}, nil
}

// Gettext translates msg in domain. Unknown domains return msg unchanged.
func (m *TranslationManager) Gettext(domain, msg string, args ...M) string {
	return m.catalog.Gettext(m.languages, domain, msg, args...)
}

// NGettext translates a message with plural forms in domain.
func (m *TranslationManager) NGettext(domain, singular, plural string, n int, args ...M) string {
	return m.catalog.NGettext(m.languages, domain, singular, plural, n, args...)
}

// Translation binds a TranslationManager to one domain.
type Translation struct {
	manager *TranslationManager
	domain  string
}

// Domain returns the bound domain.
func (t *Translation) Domain() string { return t.domain }

// Gettext translates msg.
func (t *Translation) Gettext(msg string, args ...M) string {
	return t.manager.Gettext(t.domain, msg, args...)
}

// NGettext translates a message with plural forms.
func (t *Translation) NGettext(singular, plural string, n int, args ...M) string {
	return t.manager.NGettext(t.domain, singular, plural, n, args...)
}
