// Package slug converts arbitrary text into URL-safe ASCII identifiers.
//
//	slug.Make("Café & Restaurant") // "cafe-restaurant"
//	slug.Make("  Hello   World ")  // "hello-world"
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*options)

type options struct {
	maxLength int
	separator string
}

// MaxLength truncates the slug to n bytes, never leaving a trailing separator.
// Zero means unlimited.
func MaxLength(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxLength = n
		}
	}
}

// Separator replaces the default "-" placed between words.
func Separator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// Make returns the slug for text.
//
// The text is NFKD-normalized and every non-ASCII rune is dropped, so accented
// letters lose their marks. Characters other than letters, digits, underscore,
// whitespace and hyphen are removed. The result is trimmed, lowercased, and every
// run of hyphens or whitespace collapses into a single separator.
func Make(text string, opts ...Option) string {
	o := &options{separator: "-"}
	for _, opt := range opts {
		opt(o)
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFKD.String(text) {
		if r >= utf8.RuneSelf {
			continue
		}
		if isWord(r) || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	cleaned := strings.ToLower(strings.TrimSpace(b.String()))

	var out strings.Builder
	out.Grow(len(cleaned))
	pending := false
	for _, r := range cleaned {
		if r == '-' || unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending {
			out.WriteString(o.separator)
			pending = false
		}
		out.WriteRune(r)
	}
	// a trailing hyphen survives TrimSpace and still collapses to one separator
	if pending {
		out.WriteString(o.separator)
	}

	s := out.String()
	if o.maxLength > 0 && len(s) > o.maxLength {
		s = strings.TrimRight(s[:o.maxLength], o.separator)
	}
	return s
}

func isWord(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
