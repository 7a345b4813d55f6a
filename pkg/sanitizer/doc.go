// Package sanitizer cleans untrusted HTML and renders markdown to safe HTML.
//
// StripHTML drops every tag, SanitizeHTML keeps a small set of formatting
// tags, and Markdown converts source with goldmark (GFM extensions) before
// sanitizing it with bluemonday's UGC policy. The template environment
// exposes these as the sanitize and markdown functions; error report mails
// use Markdown for their body.
package sanitizer
