package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/duende/internal"
)

// DefaultTimeout applies when Timeout gets a non-positive duration.
const DefaultTimeout = 30 * time.Second

type timeoutContextKey struct{}

// Timeout returns middleware bounding the time spent in the rest of the chain.
// When the deadline passes first a *TimeoutError is returned, which the Errors
// middleware answers with 504 Gateway Timeout.
//
// The view keeps running after the deadline. Long running views should watch
// GetTimeoutContext(c).Done() and stop early. The view runs on its own
// goroutine, so its panics are recovered here and returned as *PanicError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rec := recoverOptions{stackSize: DefaultStackSize}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				var err error
				defer func() {
					if r := recover(); r != nil {
						err = rec.panicError(c, r)
					}
					done <- err
				}()
				err = next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
			}
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ctx.Err()
			}
			c.LogWarn("request timeout", "timeout", timeout.String())
			return &TimeoutError{Duration: timeout}
		}
	}
}

// GetTimeoutContext returns the deadline bound context set by Timeout, or the
// request context when the middleware is not in the chain.
func GetTimeoutContext(c internal.Context) context.Context {
	if ctx, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
