package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/job"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/session"
	"github.com/dmitrymomot/duende/pkg/urls"
)

// Option configures the application.
type Option func(*App)

// WithURLMapping sets the app and resource mapping used to resolve views.
func WithURLMapping(m *urls.Mapping) Option {
	return func(a *App) {
		a.mapping = m
	}
}

// WithURLFile loads the url mapping from an INI or YAML file.
//
// Example:
//
//	duende.New(
//	    duende.WithURLFile("config/urls.ini", urls.WithPrefix("/site")),
//	)
func WithURLFile(path string, opts ...urls.Option) Option {
	return func(a *App) {
		m, err := urls.Load(path, opts...)
		if err != nil {
			a.optErrs = append(a.optErrs, fmt.Errorf("load url file: %w", err))
			return
		}
		a.mapping = m
	}
}

// WithDebug enables debug mode: indented JSON and error details in responses.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.debug = debug
	}
}

// WithResources sets the directory holding per-app resources
// (templates, static content and translations).
// Static content of every enabled app is served in front of the views.
func WithResources(dir string) Option {
	return func(a *App) {
		a.resourcesDir = dir
	}
}

// WithResolverOptions configures the view resolver.
func WithResolverOptions(opts ...ResolverOption) Option {
	return func(a *App) {
		a.resolverOpts = append(a.resolverOpts, opts...)
	}
}

// WithMiddleware adds middleware to the request pipeline.
// Middleware is applied in the order provided; the first one is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithViews registers the views declared by handlers under app.
// An empty app name means the root application.
func WithViews(app string, h ...Handler) Option {
	return func(a *App) {
		a.views[app] = append(a.views[app], h...)
	}
}

// WithHandlers registers handlers declaring views of the root application.
func WithHandlers(h ...Handler) Option {
	return WithViews("", h...)
}

// WithErrorHandler sets a handler for errors no middleware handled.
// Returning a non-nil error falls back to a plain text response.
//
// Example:
//
//	duende.WithErrorHandler(func(c duende.Context, err error) error {
//	    return c.String(http.StatusInternalServerError, "something went wrong")
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	duende.WithHealthChecks(
//	    duende.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    duende.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger from cfg with a component name and optional extractors.
// Extractors pull values from context (e.g., request_id, view).
//
// Example:
//
//	duende.New(
//	    duende.WithLogger("site", cfg.Log, middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, cfg logger.Config, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(cfg, extractors...).With(slog.String("component", component))
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	duende.New(
//	    duende.WithCookieOptions(
//	        cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side session management.
// The session cookie is written by the app's cookie manager, so it is
// signed when WithCookieOptions sets a secret. Sessions are loaded lazily and
// saved automatically before the response is written.
//
// Example:
//
//	duende.New(
//	    duende.WithSession(session.NewPostgresStore(pool),
//	        duende.WithSessionMaxAge(86400*30),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithJobs enables periodic background tasks using River, such as session
// garbage collection. Workers start when the app runs and stop during shutdown.
//
// Example:
//
//	duende.New(
//	    duende.WithJobs(pool,
//	        job.WithSessionCleanup(store, "@every 1h"),
//	    ),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...job.Option) Option {
	return func(a *App) {
		jm, err := job.NewManager(pool, opts...)
		if err != nil {
			a.optErrs = append(a.optErrs, fmt.Errorf("job manager: %w", err))
			return
		}
		a.jobWorker = jm
	}
}

// WithStartupHook registers fn to run when the app starts serving, before the
// hooks given to Run. The context is cancelled at shutdown, so long running
// watchers may keep it.
func WithStartupHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.startupHooks = append(a.startupHooks, fn)
		}
	}
}

// WithShutdownHook registers fn to run at shutdown, after the hooks given to Run.
//
// Example:
//
//	duende.WithShutdownHook(db.Shutdown(pool))
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}
