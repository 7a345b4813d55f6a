package internal

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/health"
	"github.com/dmitrymomot/duende/pkg/job"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/resource"
	"github.com/dmitrymomot/duende/pkg/urls"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// It owns the view registry, runs every request through the middleware chain
// and dispatches it to the resolved view.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router         chi.Router
	errorHandler   ErrorHandler
	healthConfig   *healthConfig
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	sessionManager *SessionManager
	jobWorker      *job.Manager
	mapping        *urls.Mapping
	registry       *Registry
	resolver       *ViewResolver
	views          map[string][]Handler
	resourcesDir   string
	middlewares    []Middleware
	resolverOpts   []ResolverOption
	startupHooks   []func(context.Context) error
	shutdownHooks  []func(context.Context) error
	optErrs        []error
	debug          bool
}

// New creates a new application with the given options.
// A url mapping is required; views of each app are registered from the
// handlers given to WithViews.
//
// Example:
//
//	app, err := duende.New(
//	    duende.WithURLMapping(mapping),
//	    duende.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    duende.WithViews("blog", handlers.NewPosts(repo)),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(), // Default: noop logger (before options)
		cookieManager: cookie.New(),     // Default: cookie manager (no secret)
		registry:      NewRegistry(),
		views:         make(map[string][]Handler),
	}

	for _, opt := range opts {
		opt(a)
	}
	if err := errors.Join(a.optErrs...); err != nil {
		return nil, err
	}
	if a.mapping == nil {
		return nil, errors.Join(ErrNotConfigured, errors.New("url mapping is required"))
	}

	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
		a.sessionManager.inheritCookies(a.cookieManager)
	}

	if err := a.registerViews(); err != nil {
		return nil, err
	}

	if a.resourcesDir != "" {
		a.resolverOpts = append([]ResolverOption{WithResolverResources(a.resourcesDir)}, a.resolverOpts...)
	}
	a.resolver = NewViewResolver(a.registry, a.mapping, a.resolverOpts...)

	a.setupRoutes()
	return a, nil
}

// registerViews calls every handler with a registrar bound to its app.
func (a *App) registerViews() error {
	var errs []error
	for app, handlers := range a.views {
		if app == "" {
			app = a.mapping.RootApp()
		}
		if !a.mapping.IsEnabled(app) {
			errs = append(errs, errors.Join(urls.ErrUnknownApp, errors.New(app)))
			continue
		}
		r := newRegistrar(a.registry, app, &errs)
		for _, h := range handlers {
			h.Views(r)
		}
	}
	return errors.Join(errs...)
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// Registry returns the view registry.
func (a *App) Registry() *Registry {
	return a.registry
}

// Resolver returns the view resolver.
func (a *App) Resolver() *ViewResolver {
	return a.resolver
}

// Mapping returns the url mapping.
func (a *App) Mapping() *urls.Mapping {
	return a.mapping
}

// JobWorker returns the job worker if configured, nil otherwise.
func (a *App) JobWorker() *job.Manager {
	return a.jobWorker
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the HTTP server and blocks until shutdown.
// If job workers are configured, they start automatically before serving
// requests and stop gracefully during shutdown.
//
// Example:
//
//	err := app.Run(":8080", duende.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	return Run(a, append([]RunOption{Address(addr)}, opts...)...)
}

// setupRoutes configures health endpoints, per-app static content and the
// catch-all view pipeline.
func (a *App) setupRoutes() {
	if hc := a.healthConfig; hc != nil {
		checks := maps.Clone(hc.checks)
		if a.jobWorker != nil {
			if checks == nil {
				checks = make(health.Checks, 1)
			}
			checks["jobs"] = job.Healthcheck(a.jobWorker)
		}
		a.router.Get(hc.livenessPath, health.LivenessHandler())
		a.router.Get(hc.readinessPath, health.ReadinessHandler(checks, health.WithLogger(a.logger)))
	}

	var pipeline http.Handler = http.HandlerFunc(a.serveView)
	if a.resourcesDir != "" {
		pipeline = resource.StaticDirs(pipeline, a.resourcesDir, a.mapping.EnabledApps())
	}
	a.router.Handle("/*", pipeline)
}

// serveView runs one request through the middleware chain with a single Context.
func (a *App) serveView(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, a)
	h := Chain(dispatch, a.middlewares...)

	if err := h(c); err != nil {
		a.handleError(c, err)
	}

	// Sessions changed by a view that wrote nothing are saved here.
	if c.sessionManager != nil {
		c.saveSession()
	}
}

// dispatch is the innermost handler: it calls the resolved view.
func dispatch(c Context) error {
	rv, err := c.Resolve()
	if err != nil {
		return err
	}
	if rv.View.Handler == nil {
		return ErrNoView
	}
	return rv.View.Handler(c)
}

// handleError handles errors that escaped the middleware chain.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c, "error after response was written", slog.String("error", err.Error()))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr == nil {
			return
		}
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if httpErr := AsHTTPError(err); httpErr != nil {
		code, msg = httpErr.Code, httpErr.Message
		for k, vs := range httpErr.Headers {
			for _, v := range vs {
				c.Response().Header().Add(k, v)
			}
		}
	} else {
		a.logger.ErrorContext(c, "unhandled error", slog.String("error", err.Error()))
	}
	http.Error(c.Response(), msg, code)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	duende.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
