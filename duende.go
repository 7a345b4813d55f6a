package duende

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/health"
	"github.com/dmitrymomot/duende/pkg/job"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/session"
	"github.com/dmitrymomot/duende/pkg/urls"
)

// Type aliases - public API
type (
	// App owns the view registry and serves requests through the middleware chain.
	App = internal.App

	// Context provides request/response access and the per-request services.
	Context = internal.Context

	// Handler declares the views of an application.
	Handler = internal.Handler

	// Registrar is the interface handlers use to declare views.
	Registrar = internal.Registrar

	// HandlerFunc is the signature of views and middleware.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors that escape the middleware chain.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// ViewOption configures a registered view.
	ViewOption = internal.ViewOption

	// ResolvedView is the view a request path resolved to.
	ResolvedView = internal.ResolvedView

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// JobOption configures the periodic job runner.
	JobOption = job.Option
)

// Errors
var (
	ErrViewNotFound  = internal.ErrViewNotFound
	ErrNotConfigured = internal.ErrNotConfigured
)

// New creates an application from options. Most applications use NewApp,
// which assembles the default middleware stack from a Config.
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// Run starts an HTTP server for app and blocks until SIGINT or SIGTERM.
func Run(app *App, opts ...RunOption) error {
	return internal.Run(app, opts...)
}

// Chain wraps h with mws, the first one outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	return internal.Chain(h, mws...)
}

// Public marks a view as reachable without a signed in user.
func Public(public bool) ViewOption {
	return internal.Public(public)
}

// App options

// WithURLMapping sets the url mapping.
func WithURLMapping(m *urls.Mapping) Option {
	return internal.WithURLMapping(m)
}

// WithURLFile loads the url mapping from an INI or YAML file.
func WithURLFile(path string, opts ...urls.Option) Option {
	return internal.WithURLFile(path, opts...)
}

// WithDebug enables debug mode.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithResources sets the directory holding per-app resources.
func WithResources(dir string) Option {
	return internal.WithResources(dir)
}

// WithMiddleware appends middleware to the chain, outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithViews registers the views declared by h under app.
//
// Example:
//
//	duende.WithViews("blog", handlers.NewPosts(repo), handlers.NewFeeds(repo))
func WithViews(app string, h ...Handler) Option {
	return internal.WithViews(app, h...)
}

// WithHandlers registers views of the root app.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler sets the handler for errors escaping the middleware chain.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks enables the liveness and readiness endpoints.
//
// Example:
//
//	duende.WithHealthChecks(
//	    duende.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates the application logger from cfg.
func WithLogger(component string, cfg logger.Config, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, cfg, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSession enables server-side sessions kept in store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithJobs runs periodic tasks, such as session garbage collection, while the app runs.
func WithJobs(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobs(pool, opts...)
}

// WithStartupHook registers fn to run when the app starts serving.
func WithStartupHook(fn func(context.Context) error) Option {
	return internal.WithStartupHook(fn)
}

// WithShutdownHook registers fn to run at shutdown.
func WithShutdownHook(fn func(context.Context) error) Option {
	return internal.WithShutdownHook(fn)
}

// Health check options

// WithLivenessPath sets the liveness endpoint path. Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path. Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Session options

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// Run options

// Address sets the HTTP server address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// StartupHook registers a function run before requests are served.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// WithContext sets the base context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Error constructors

// NewHTTPError creates an HTTPError. An empty message defaults to the status text.
func NewHTTPError(code int, message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func ErrBadRequest(message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ContextValue returns the value stored under key, or the zero value of T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Query parses a query parameter as T. Missing or malformed values give the zero value.
//
// Example:
//
//	page := duende.Query[int](c, "page")
func Query[T internal.Param](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault parses a query parameter as T, falling back to def.
func QueryDefault[T internal.Param](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}
