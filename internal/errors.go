package internal

import (
	"errors"
	"net/http"
)

var (
	ErrNoView            = errors.New("no view handler available in request context")
	ErrViewNotFound      = errors.New("view not found")
	ErrInvalidView       = errors.New("invalid view registration")
	ErrNotConfigured     = errors.New("not configured")
	ErrFlashNotEnabled   = errors.New("flash is not enabled")
	ErrDatabaseNotActive = errors.New("database middleware is not enabled")
	ErrNoTranslation     = errors.New("no translation initialized")
)

// HTTPError is an error a view returns to answer with a specific status.
// Message is shown to the user; Detail and Err only in debug mode.
type HTTPError struct {
	Err     error
	Headers http.Header
	Message string
	Detail  string
	Code    int
}

func (e *HTTPError) Error() string   { return e.Message }
func (e *HTTPError) Unwrap() error   { return e.Err }
func (e *HTTPError) StatusCode() int { return e.Code }

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError returns an error answered with code. An empty message
// defaults to the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	if e.Message == "" {
		e.Message = http.StatusText(code)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) { e.Detail = detail }
}

// WithError attaches the cause, kept for logs and errors.Is.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

// WithHeader adds a response header, e.g. Allow or Retry-After.
func WithHeader(name, value string) HTTPErrorOption {
	return func(e *HTTPError) {
		if e.Headers == nil {
			e.Headers = make(http.Header)
		}
		e.Headers.Add(name, value)
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

// ErrMethodNotAllowed lists allowed in the Allow header.
func ErrMethodNotAllowed(allowed []string, opts ...HTTPErrorOption) *HTTPError {
	for _, m := range allowed {
		opts = append(opts, WithHeader("Allow", m))
	}
	return NewHTTPError(http.StatusMethodNotAllowed, "", opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError returns the *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var e *HTTPError
	if errors.As(err, &e) {
		return e
	}
	return nil
}
