// Command example serves a small guestbook built on duende.
//
// Sessions live in memory by default, in Redis when DUENDE_REDIS_URL is set
// and in PostgreSQL when DUENDE_DATABASE_URL is set. With RESEND_API_KEY and
// NOTIFY_TO, 5xx responses are reported by mail.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/duende"
	"github.com/dmitrymomot/duende/example/handlers"
	"github.com/dmitrymomot/duende/pkg/db"
	"github.com/dmitrymomot/duende/pkg/job"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/notify"
	"github.com/dmitrymomot/duende/pkg/notify/resend"
	"github.com/dmitrymomot/duende/pkg/redis"
	"github.com/dmitrymomot/duende/pkg/session"
)

type config struct {
	App    duende.Config
	Notify notify.Config
	Resend resend.Config

	DatabaseURL string `env:"DUENDE_DATABASE_URL"`
	RedisURL    string `env:"DUENDE_REDIS_URL"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		slog.Error("parse env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(cfg.App.Log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	var (
		svc   duende.Services
		store handlers.Store
		opts  []duende.Option
	)

	switch {
	case cfg.DatabaseURL != "":
		dbCfg, err := env.ParseAs[db.Config]()
		if err != nil {
			return err
		}
		pool, err := db.Connect(ctx, dbCfg)
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx, pool, session.MigrationsFS(), dbCfg.MigrationsTable, log); err != nil {
			return err
		}
		if err := db.Migrate(ctx, pool, handlers.MigrationsFS(), "guestbook_migrations", log); err != nil {
			return err
		}
		store = handlers.PostgresStore{}
		store := session.NewPostgresStore(pool)
		svc.Pool, svc.Sessions = pool, store
		opts = append(opts,
			duende.WithJobs(pool, job.WithLogger(log), job.WithSessionCleanup(store, job.DefaultSessionCleanupSchedule)),
			duende.WithShutdownHook(db.Shutdown(pool)),
		)

	case cfg.RedisURL != "":
		client, err := redis.Connect(ctx, redis.DefaultConfig(cfg.RedisURL))
		if err != nil {
			return err
		}
		svc.Sessions = session.NewRedisStore(client)
		opts = append(opts,
			duende.WithHealthChecks(duende.WithReadinessCheck("redis", redis.Healthcheck(client))),
			duende.WithShutdownHook(redis.Shutdown(client)),
		)
	}

	if cfg.Resend.APIKey != "" && len(cfg.Notify.To) > 0 {
		svc.Notifier = notify.New(resend.New(cfg.Resend), cfg.Notify, notify.WithLogger(log))
	}

	opts = append(opts, duende.WithHandlers(handlers.NewGuestbook(store)))
	app, err := duende.NewApp(cfg.App, svc, opts...)
	if err != nil {
		return err
	}

	return duende.Run(app,
		duende.Address(cfg.App.Address),
		duende.ShutdownTimeout(cfg.App.ShutdownTimeout),
	)
}
