package internal

import "fmt"

// ExtractorSource reads one request value, such as the locale picked by the
// user. It reports false when the value is missing or empty.
type ExtractorSource = func(Context) (string, bool)

// Extractor looks a value up in several sources, first match wins.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value found.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// lookup adapts a getter that cannot fail.
func lookup(get func(Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

// lookupErr adapts a getter where any error counts as a miss.
func lookupErr(get func(Context) (string, error)) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := get(c)
		return v, err == nil && v != ""
	}
}

func FromHeader(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Header(name) })
}

func FromQuery(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Query(name) })
}

func FromForm(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Form(name) })
}

func FromCookie(name string) ExtractorSource {
	return lookupErr(func(c Context) (string, error) { return c.Cookie(name) })
}

// FromCookieSigned ignores cookies with a bad signature.
func FromCookieSigned(name string) ExtractorSource {
	return lookupErr(func(c Context) (string, error) { return c.CookieSigned(name) })
}

func FromCookieEncrypted(name string) ExtractorSource {
	return lookupErr(func(c Context) (string, error) { return c.CookieEncrypted(name) })
}

// FromSession reads a session value. Non-string values are formatted with
// fmt.Sprint. A request without a session is a miss and creates none.
func FromSession(key string) ExtractorSource {
	return lookupErr(func(c Context) (string, error) {
		v, err := c.SessionValue(key)
		switch {
		case err != nil:
			return "", err
		case v == nil:
			return "", nil
		}
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	})
}
