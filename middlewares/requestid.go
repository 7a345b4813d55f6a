package middlewares

import (
	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/id"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked, in order, for an ID set upstream.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// maxRequestIDLen bounds upstream IDs; longer or non printable values are replaced.
const maxRequestIDLen = 128

// RequestIDOption tunes RequestID.
type RequestIDOption func(*requestIDOptions)

type requestIDOptions struct {
	generate func() string
	echo     string
	headers  []string
}

func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(o *requestIDOptions) { o.headers = headers }
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(o *requestIDOptions) {
		if gen != nil {
			o.generate = gen
		}
	}
}

// WithRequestIDResponseHeader names the response header echoing the ID.
// An empty name disables the echo.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(o *requestIDOptions) { o.echo = header }
}

// RequestID returns middleware that tags each request with an ID, reusing one
// sent by a proxy when present. The ID is echoed in the response and added
// to log entries through RequestIDExtractor.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	o := requestIDOptions{
		generate: id.NewULID,
		echo:     "X-Request-ID",
		headers:  DefaultRequestIDHeaders,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			reqID := o.upstream(c)
			if reqID == "" {
				reqID = o.generate()
			}
			c.Set(requestIDKey{}, reqID)
			if o.echo != "" {
				c.SetHeader(o.echo, reqID)
			}
			return next(c)
		}
	}
}

func (o requestIDOptions) upstream(c internal.Context) string {
	for _, h := range o.headers {
		if v := c.Header(h); v != "" {
			if !validRequestID(v) {
				return ""
			}
			return v
		}
	}
	return ""
}

func validRequestID(s string) bool {
	if len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID assigned by RequestID, or "".
func GetRequestID(c internal.Context) string {
	v, _ := c.Get(requestIDKey{}).(string)
	return v
}
