package duende

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/duende/middlewares"
	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/db"
	"github.com/dmitrymomot/duende/pkg/i18n"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/resource"
	"github.com/dmitrymomot/duende/pkg/session"
	"github.com/dmitrymomot/duende/pkg/template"
	"github.com/dmitrymomot/duende/pkg/urls"
)

// Services are the long-lived dependencies NewApp wires into the request
// pipeline. Every field is optional.
type Services struct {
	// Pool backs the per-request database session and the readiness check.
	Pool *pgxpool.Pool
	// Sessions stores user sessions. Defaults to an in-memory store.
	Sessions session.Store
	// Notifier receives a report for every 5xx response.
	Notifier middlewares.Notifier
	// Middlewares run after the default stack, right before the view.
	Middlewares []Middleware
}

// NewApp builds an application from cfg: it loads the url mapping, the
// translation catalogs and templates of every enabled app from the resources
// directory and assembles the default middleware chain. Options are applied
// last and may override any default.
//
// Example:
//
//	cfg, err := duende.LoadConfig()
//	...
//	app, err := duende.NewApp(cfg, duende.Services{Pool: pool},
//	    duende.WithViews("blog", handlers.NewPosts(repo)),
//	)
func NewApp(cfg Config, svc Services, opts ...Option) (*App, error) {
	mapping, err := urls.Load(cfg.URLFile, urls.WithPrefix(cfg.URLPrefix))
	if err != nil {
		return nil, fmt.Errorf("duende: load url mapping: %w", err)
	}
	apps := mapping.EnabledApps()

	log := logger.New(cfg.Log,
		middlewares.RequestIDExtractor(),
		middlewares.ViewExtractor(),
		middlewares.UserExtractor(),
	)

	catalogOpts := make([]i18n.Option, 0, len(apps))
	for _, app := range apps {
		catalogOpts = append(catalogOpts, i18n.WithDomainDir(app, resource.Sub(cfg.ResourcesDir, app, "locale")))
	}
	catalog, err := i18n.New(catalogOpts...)
	if err != nil {
		return nil, fmt.Errorf("duende: load translations: %w", err)
	}

	env, err := template.NewFromDirs(resource.Dirs(cfg.ResourcesDir, apps, "templates"),
		template.WithDebug(cfg.Debug),
		template.WithURL(mapping.URL),
		template.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("duende: load templates: %w", err)
	}

	sessions := svc.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}

	base := []Option{
		WithURLMapping(mapping),
		WithDebug(cfg.Debug),
		WithResources(cfg.ResourcesDir),
		WithCustomLogger(log),
		WithCookieOptions(
			cookie.WithSecret(cfg.CookieSecret),
			cookie.WithSecure(cfg.CookieSecure),
		),
		WithSession(sessions, WithSessionMaxAge(cfg.SessionMaxAge)),
		WithMiddleware(defaultMiddlewares(cfg, svc, catalog, env)...),
		WithMiddleware(svc.Middlewares...),
	}
	if svc.Pool != nil {
		base = append(base, WithHealthChecks(WithReadinessCheck("db", db.Healthcheck(svc.Pool))))
	}
	if cfg.Debug {
		base = append(base, WithStartupHook(watchTemplates(env, log)))
	}

	return New(append(base, opts...)...)
}

// defaultMiddlewares returns the request pipeline, outermost first.
func defaultMiddlewares(cfg Config, svc Services, catalog *i18n.Catalog, env *template.Environment) []Middleware {
	mws := []Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
	}
	if cfg.Debug && cfg.DebugRequests {
		mws = append(mws, middlewares.Requests())
	}

	var errOpts []middlewares.ErrorsOption
	if svc.Notifier != nil {
		errOpts = append(errOpts, middlewares.WithErrorsNotifier(svc.Notifier))
	}
	mws = append(mws, middlewares.Errors(errOpts...))

	if cfg.RequestTimeout > 0 {
		mws = append(mws, middlewares.Timeout(cfg.RequestTimeout))
	}
	if cfg.UploadMaxSize > 0 {
		mws = append(mws, middlewares.LimitUploadSize(cfg.UploadMaxSize))
	}

	mws = append(mws,
		middlewares.ResolveView(),
		middlewares.Locale(catalog, middlewares.WithDefaultLocale(cfg.DefaultLocale)),
		middlewares.Template(env),
	)
	if svc.Pool != nil {
		mws = append(mws, middlewares.Database(svc.Pool))
	}

	authOpts := []middlewares.AuthOption{middlewares.WithAuthDefaultPublic(cfg.AuthDefaultPublic)}
	if cfg.AuthLoginURL != "" {
		authOpts = append(authOpts, middlewares.WithAuthLoginURL(cfg.AuthLoginURL))
	}
	return append(mws,
		middlewares.RequestContext(),
		middlewares.Flash(),
		middlewares.Auth(authOpts...),
	)
}

// watchTemplates reloads env on file changes until the server shuts down.
func watchTemplates(env *template.Environment, log *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		go func() {
			if err := env.Watch(ctx); err != nil && !errors.Is(err, template.ErrNoReload) {
				log.Error("template watcher stopped", slog.String("error", err.Error()))
			}
		}()
		return nil
	}
}
