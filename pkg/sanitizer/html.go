package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = sync.OnceValue(bluemonday.StrictPolicy)
	ugc    = sync.OnceValue(bluemonday.UGCPolicy)

	// formatting keeps what flash messages and template values may carry.
	formatting = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements("p", "br", "strong", "b", "em", "i", "ul", "ol", "li", "code", "pre", "blockquote")
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		return p
	})
)

// StripHTML removes every tag and returns the text content.
func StripHTML(s string) string { return strict().Sanitize(s) }

// SanitizeHTML allows safe formatting tags (p, a, strong, em, lists, code).
// Scripts, event handlers and javascript: URLs are removed.
func SanitizeHTML(s string) string { return formatting().Sanitize(s) }

// SanitizeHTMLCustom applies policy, or returns s unchanged for a nil policy.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
