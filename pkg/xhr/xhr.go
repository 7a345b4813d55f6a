// Package xhr classifies asynchronous browser requests.
//
// The error and auth middlewares answer XHR requests that accept JSON with
// JSON-RPC error envelopes instead of HTML pages or redirects.
package xhr

import (
	"net/http"
	"strings"
)

const (
	HeaderRequestedWith = "X-Requested-With"
	HeaderHXRequest     = "HX-Request"
	HeaderHXRedirect    = "HX-Redirect"
)

// IsXHR reports whether the request was sent by XMLHttpRequest/fetch wrappers
// (X-Requested-With: XMLHttpRequest) or by htmx (HX-Request: true).
func IsXHR(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get(HeaderRequestedWith), "XMLHttpRequest") {
		return true
	}
	return r.Header.Get(HeaderHXRequest) == "true"
}

// AcceptsJSON reports whether the Accept header mentions application/json.
func AcceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// WantsJSONRPC reports whether errors for this request should be rendered as
// JSON-RPC envelopes.
func WantsJSONRPC(r *http.Request) bool {
	return IsXHR(r) && AcceptsJSON(r)
}

// Redirect sends a redirect understood by both browsers and htmx.
// htmx requests receive 200 with an HX-Redirect header since htmx does not
// follow 3xx responses for swaps.
func Redirect(w http.ResponseWriter, r *http.Request, target string, status int) {
	if r.Header.Get(HeaderHXRequest) == "true" {
		w.Header().Set(HeaderHXRedirect, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, status)
}
