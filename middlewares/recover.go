package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/duende/internal"
)

// DefaultStackSize caps the captured stack trace, in bytes.
const DefaultStackSize = 4096

// RecoverOption tunes Recover.
type RecoverOption func(*recoverOptions)

type recoverOptions struct {
	stackSize int
	noStack   bool
}

// WithRecoverStackSize caps the captured stack trace at size bytes.
func WithRecoverStackSize(size int) RecoverOption {
	return func(o *recoverOptions) {
		if size > 0 {
			o.stackSize = size
		}
	}
}

// WithRecoverDisablePrintStack skips the stack trace.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(o *recoverOptions) { o.noStack = true }
}

// Recover returns middleware turning a panic of any later middleware or view
// into a *PanicError. The Errors middleware renders it as a 500; in debug mode
// the stack trace is part of the response.
func Recover(opts ...RecoverOption) internal.Middleware {
	o := recoverOptions{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = o.panicError(c, r)
				}
			}()
			return next(c)
		}
	}
}

// panicError logs r with the view name and the stack of the panicking goroutine.
// It must be called from the deferred function that recovered r.
func (o recoverOptions) panicError(c internal.Context, r any) *PanicError {
	pe := &PanicError{Value: r}
	attrs := []any{"panic", r}
	if v := c.View(); v != nil {
		attrs = append(attrs, "view", v.String())
	}
	if !o.noStack {
		buf := make([]byte, o.stackSize)
		pe.Stack = buf[:runtime.Stack(buf, false)]
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	c.LogError("panic recovered", attrs...)
	return pe
}
