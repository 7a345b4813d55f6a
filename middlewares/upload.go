package middlewares

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/duende/internal"
)

// DefaultMaxUploadSize is the POST body limit used when none is given.
const DefaultMaxUploadSize int64 = 10 << 20

// LimitUploadSize returns middleware rejecting POST requests whose declared
// body is larger than maxSize, or that do not declare a size, with
// 400 Bad Request. The body is also capped while it is read.
func LimitUploadSize(maxSize int64) internal.Middleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if r.Method != http.MethodPost {
				return next(c)
			}

			size := r.ContentLength
			if h := r.Header.Get("Content-Length"); h != "" {
				n, err := strconv.ParseInt(h, 10, 64)
				if err != nil {
					return internal.ErrBadRequest("Invalid content-length header")
				}
				size = n
			} else if size <= 0 {
				return internal.ErrBadRequest("No content-length header specified")
			}

			if size > maxSize {
				return internal.ErrBadRequest("POST body exceeds maximum limits")
			}

			r.Body = http.MaxBytesReader(c.Response(), r.Body, maxSize)
			return next(c)
		}
	}
}
