package i18n

import (
	"fmt"
	"maps"
	"slices"
)

// M is a set of named values interpolated into translated messages.
type M map[string]any

// Catalog holds the messages of every translation domain.
// A domain is an application name; each domain carries messages per language.
// Catalog is immutable after New returns and safe for concurrent use.
type Catalog struct {
	// Key format: "lang:domain:msgid"
	messages    map[string]string
	pluralRules map[string]PluralRule
	domains     map[string]struct{}
	languages   map[string]struct{}
	onMissing   func(lang, domain, msgid string)
}

// Option configures the Catalog during construction.
type Option func(*Catalog) error

// New creates a Catalog with the given options.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		messages:    make(map[string]string),
		pluralRules: make(map[string]PluralRule),
		domains:     make(map[string]struct{}),
		languages:   make(map[string]struct{}),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return c, nil
}

// WithDomain registers a domain without messages.
// Lookups in an empty domain fall back to the message id.
func WithDomain(domain string) Option {
	return func(c *Catalog) error {
		if domain == "" {
			return ErrEmptyDomain
		}
		c.domains[domain] = struct{}{}
		return nil
	}
}

// WithMessages adds messages for a language inside a domain.
// Nested maps hold plural forms keyed by CLDR category:
//
//	"%(num)d file":
//	  one: "%(num)d fichero"
//	  other: "%(num)d ficheros"
func WithMessages(lang, domain string, messages map[string]any) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if domain == "" {
			return ErrEmptyDomain
		}
		c.add(lang, domain, messages)
		return nil
	}
}

// WithPluralRule registers a custom plural rule for a language.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		c.pluralRules[lang] = rule
		return nil
	}
}

// WithMissingHandler sets a function called when a message is not translated
// in any of the requested languages.
func WithMissingHandler(fn func(lang, domain, msgid string)) Option {
	return func(c *Catalog) error {
		c.onMissing = fn
		return nil
	}
}

func (c *Catalog) add(lang, domain string, messages map[string]any) {
	c.domains[domain] = struct{}{}
	if len(messages) == 0 {
		return
	}

	c.languages[lang] = struct{}{}
	for msgid, text := range flatten(messages, "") {
		c.messages[buildKey(lang, domain, msgid)] = text
	}
}

// HasDomain reports whether domain is registered.
func (c *Catalog) HasDomain(domain string) bool {
	_, ok := c.domains[domain]
	return ok
}

// Domains returns the registered domains sorted by name.
func (c *Catalog) Domains() []string {
	return slices.Sorted(maps.Keys(c.domains))
}

// Languages returns the languages that have at least one message, sorted.
func (c *Catalog) Languages() []string {
	return slices.Sorted(maps.Keys(c.languages))
}

// Lookup returns the message for msgid in exactly one language.
func (c *Catalog) Lookup(lang, domain, msgid string) (string, bool) {
	text, ok := c.messages[buildKey(lang, domain, msgid)]
	return text, ok
}

// Gettext translates msgid using the first language in langs that has it.
// Untranslated messages are returned unchanged. Values in args are
// interpolated into "%(name)s" placeholders.
func (c *Catalog) Gettext(langs []string, domain, msgid string, args ...M) string {
	for _, lang := range langs {
		if text, ok := c.Lookup(lang, domain, msgid); ok {
			return Interpolate(text, Merge(args...))
		}
	}

	c.missing(langs, domain, msgid)
	return Interpolate(msgid, Merge(args...))
}

// NGettext translates a message with plural forms.
// The plural category is chosen with the plural rule of the language that
// provides the translation. Untranslated messages fall back to singular when
// n is 1 and to plural otherwise. The count is available as "%(num)d".
func (c *Catalog) NGettext(langs []string, domain, singular, plural string, n int, args ...M) string {
	values := M{"num": n}
	maps.Copy(values, Merge(args...))

	for _, lang := range langs {
		if text, ok := c.lookupPlural(lang, domain, singular, n); ok {
			return Interpolate(text, values)
		}
	}

	c.missing(langs, domain, singular)
	if n == 1 {
		return Interpolate(singular, values)
	}
	return Interpolate(plural, values)
}

func (c *Catalog) lookupPlural(lang, domain, msgid string, n int) (string, bool) {
	forms := pluralFallback(c.pluralRule(lang)(n))
	if n == 0 {
		forms = append([]string{PluralZero}, forms...)
	}

	for _, form := range forms {
		if text, ok := c.Lookup(lang, domain, msgid+"."+form); ok {
			return text, true
		}
	}
	return "", false
}

func (c *Catalog) pluralRule(lang string) PluralRule {
	if rule, ok := c.pluralRules[lang]; ok {
		return rule
	}
	if rule, ok := c.pluralRules[BaseLanguage(lang)]; ok {
		return rule
	}
	return PluralRuleFor(lang)
}

func (c *Catalog) missing(langs []string, domain, msgid string) {
	if c.onMissing == nil {
		return
	}
	lang := ""
	if len(langs) > 0 {
		lang = langs[0]
	}
	c.onMissing(lang, domain, msgid)
}

func buildKey(lang, domain, msgid string) string {
	return lang + ":" + domain + ":" + msgid
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string, len(data))

	for key, value := range data {
		if prefix != "" {
			key = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[key] = v
		case map[string]any:
			maps.Copy(result, flatten(v, key))
		case map[string]string:
			for form, text := range v {
				result[key+"."+form] = text
			}
		default:
			result[key] = fmt.Sprint(v)
		}
	}

	return result
}

// Merge combines placeholder maps; later maps win.
func Merge(args ...M) M {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	}
	merged := make(M)
	for _, a := range args {
		maps.Copy(merged, a)
	}
	return merged
}

// pluralFallback lists the categories to try, most specific first.
func pluralFallback(form string) []string {
	switch form {
	case PluralOther:
		return []string{PluralOther}
	case PluralTwo:
		return []string{PluralTwo, PluralFew, PluralMany, PluralOther}
	case PluralFew:
		return []string{PluralFew, PluralMany, PluralOther}
	default:
		return []string{form, PluralOther}
	}
}
