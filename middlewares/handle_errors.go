package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/jsonrpc"
	"github.com/dmitrymomot/duende/pkg/notify"
)

// DefaultNotifyTimeout bounds the time spent sending one error report.
const DefaultNotifyTimeout = 10 * time.Second

// Notifier receives reports of requests that failed with a 5xx status.
// *notify.Notifier implements it.
type Notifier interface {
	Notify(ctx context.Context, r notify.Report) error
}

// ErrorsConfig configures the Errors middleware.
type ErrorsConfig struct {
	Notifier      Notifier
	NotifyTimeout time.Duration
}

// ErrorsOption configures ErrorsConfig.
type ErrorsOption func(*ErrorsConfig)

// WithErrorsNotifier sends a report for every 5xx response.
func WithErrorsNotifier(n Notifier) ErrorsOption {
	return func(cfg *ErrorsConfig) {
		cfg.Notifier = n
	}
}

// WithErrorsNotifyTimeout bounds the time spent sending one report.
func WithErrorsNotifyTimeout(d time.Duration) ErrorsOption {
	return func(cfg *ErrorsConfig) {
		if d > 0 {
			cfg.NotifyTimeout = d
		}
	}
}

// Errors returns middleware rendering the errors of the rest of the chain.
//
//   - *jsonrpc.Error renders a JSON-RPC error envelope.
//   - *internal.HTTPError renders its own status, message and headers.
//   - *TimeoutError renders 504 Gateway Timeout.
//   - Any other error is logged and renders 500, or a JSON-RPC internal error
//     when the request is XHR and accepts JSON.
//
// In debug mode responses carry the error detail and panic stack.
func Errors(opts ...ErrorsOption) internal.Middleware {
	cfg := &ErrorsConfig{NotifyTimeout: DefaultNotifyTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Written() {
				c.LogError("error after response was written", "error", err)
				return nil
			}
			return cfg.render(c, err)
		}
	}
}

func (cfg *ErrorsConfig) render(c internal.Context, err error) error {
	if rpcErr, ok := jsonrpc.AsError(err); ok {
		return jsonrpc.Write(c.Response(), http.StatusOK, jsonrpc.ErrorResponse(rpcErr), c.Debug())
	}

	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", "status", httpErr.Code, "error", err)
			cfg.notify(c, httpErr.Code, err)
		}
		return writeHTTPError(c, httpErr)
	}

	status := statusOf(err)
	c.LogError("unable to get response", "status", status, "error", err)
	cfg.notify(c, status, err)

	if c.WantsJSON() {
		var data any
		if c.Debug() {
			data = err.Error()
		}
		return jsonrpc.Write(c.Response(), http.StatusOK, jsonrpc.ErrorResponse(jsonrpc.InternalError(data)), c.Debug())
	}

	msg := http.StatusText(status)
	if c.Debug() {
		msg = debugText(err)
	}
	return writeText(c, status, msg)
}

func writeHTTPError(c internal.Context, e *internal.HTTPError) error {
	for k, vs := range e.Headers {
		for _, v := range vs {
			c.Response().Header().Add(k, v)
		}
	}

	msg := e.Message
	if c.Debug() {
		var b strings.Builder
		b.WriteString(msg)
		if e.Detail != "" {
			fmt.Fprintf(&b, "\n\n%s", e.Detail)
		}
		if e.Err != nil {
			fmt.Fprintf(&b, "\n\n%s", debugText(e.Err))
		}
		msg = b.String()
	}
	return writeText(c, e.Code, msg)
}

func writeText(c internal.Context, status int, msg string) error {
	c.SetHeader("X-Content-Type-Options", "nosniff")
	return c.String(status, msg)
}

func debugText(err error) string {
	if pe, ok := AsPanicError(err); ok && len(pe.Stack) > 0 {
		return fmt.Sprintf("%s\n\n%s", err, pe.Stack)
	}
	return err.Error()
}

func (cfg *ErrorsConfig) notify(c internal.Context, status int, err error) {
	if cfg.Notifier == nil {
		return
	}

	r := c.Request()
	report := notify.Report{
		Time:      time.Now(),
		Err:       err,
		RequestID: GetRequestID(c),
		Method:    r.Method,
		URL:       r.URL.RequestURI(),
		User:      c.User(),
		Status:    status,
	}
	if v := c.View(); v != nil {
		report.View = v.String()
	}
	if pe, ok := AsPanicError(err); ok {
		report.Stack = pe.Stack
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Context()), cfg.NotifyTimeout)
	defer cancel()
	if nerr := cfg.Notifier.Notify(ctx, report); nerr != nil {
		c.LogWarn("error report not sent", "error", nerr)
	}
}
