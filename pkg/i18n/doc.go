// Package i18n provides gettext style translations split in domains,
// Accept-Language parsing into POSIX locale lists and locale aware formatting.
//
// Each application is a translation domain. Its messages live in
// resources/locale/<lang>.yaml where keys are the untranslated messages:
//
//	"Welcome": "Bienvenido"
//	"Hello %(name)s": "Hola %(name)s"
//	"%(num)d new message":
//	  one: "%(num)d mensaje nuevo"
//	  other: "%(num)d mensajes nuevos"
//
// Build a Catalog once at startup:
//
//	catalog, err := i18n.New(
//		i18n.WithDomainDir("blog", "resources/blog/locale"),
//		i18n.WithDomainDir("root", "resources/root/locale"),
//	)
//
// Then create a TranslationManager per request from the client's locales:
//
//	locales := i18n.HTTPLocales(r.Header.Get("Accept-Language"), i18n.DefaultLocale)
//	tm := i18n.NewTranslationManager(catalog, locales)
//	tm.Gettext("blog", "Hello %(name)s", i18n.M{"name": "Ana"})
//	tm.NGettext("blog", "%(num)d new message", "%(num)d new messages", 3)
//
// Messages are looked up in every locale of the list followed by its base
// language, so "es_AR" falls back to "es". Untranslated messages are returned
// as given.
//
// Plural categories follow Unicode CLDR. A zero count first looks for a
// "zero" form, which lets English catalogs say "No messages".
//
// LocaleFormat renders numbers, currency and dates in Short, Medium, Long and
// Full styles. FormatFor picks the format of a POSIX locale code.
package i18n
