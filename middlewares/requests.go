package middlewares

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/duende/internal"
)

// Requests returns middleware logging "[status] uri" at debug level once the
// response is done. Place it before Errors so rendered errors are logged with
// their final status.
func Requests() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)

			status := c.ResponseWriter().Status()
			if status == 0 {
				status = http.StatusOK
			}
			c.LogDebug(fmt.Sprintf("[%d] %s", status, requestURI(c.Request())))
			return err
		}
	}
}

// requestURI is the absolute request URL without the query string.
func requestURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.EscapedPath()
}
