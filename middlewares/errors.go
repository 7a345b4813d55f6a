package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMisconfigured is returned when a middleware is missing something it
// depends on: a service, or another middleware earlier in the chain.
var ErrMisconfigured = errors.New("middleware misconfigured")

// PanicError is a panic recovered by Recover. It answers 500.
type PanicError struct {
	Value any
	// nil when stack capture is disabled
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap exposes a panicked error to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// TimeoutError is returned by Timeout when a view misses its deadline.
// It answers 504.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) StatusCode() int { return http.StatusGatewayTimeout }

func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

func AsPanicError(err error) (*PanicError, bool) {
	return asTarget[*PanicError](err)
}

func AsTimeoutError(err error) (*TimeoutError, bool) {
	return asTarget[*TimeoutError](err)
}

func asTarget[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// statusOf returns the status carried by err, or 500.
func statusOf(err error) int {
	var s interface{ StatusCode() int }
	if errors.As(err, &s) {
		return s.StatusCode()
	}
	return http.StatusInternalServerError
}
