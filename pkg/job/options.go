package job

import (
	"context"
	"log/slog"
)

// DefaultSessionCleanupSchedule runs session garbage collection every hour.
const DefaultSessionCleanupSchedule = "@hourly"

// Handler is the body of a periodic task.
type Handler func(ctx context.Context) error

// ExpiredDeleter removes expired records and reports how many were deleted.
// The session stores implement it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type task struct {
	handler  Handler
	name     string
	schedule string
}

type config struct {
	logger     *slog.Logger
	tasks      []task
	maxWorkers int
	runOnStart bool
}

// Option configures the job manager.
type Option func(*config)

// WithPeriodicTask registers fn to run on schedule. The schedule is a five
// field cron expression (min hour day month weekday) or a descriptor such as
// "@hourly" or "@every 30m".
//
// Example:
//
//	job.WithPeriodicTask("purge_drafts", "0 3 * * *", repo.PurgeDrafts)
func WithPeriodicTask(name, schedule string, fn Handler) Option {
	return func(c *config) {
		c.tasks = append(c.tasks, task{name: name, schedule: schedule, handler: fn})
	}
}

// WithSessionCleanup deletes expired sessions from store on schedule.
// An empty schedule uses DefaultSessionCleanupSchedule.
//
// Example:
//
//	job.WithSessionCleanup(session.NewPostgresStore(pool), "@every 1h")
func WithSessionCleanup(store ExpiredDeleter, schedule string) Option {
	if schedule == "" {
		schedule = DefaultSessionCleanupSchedule
	}
	return func(c *config) {
		if store == nil {
			c.tasks = append(c.tasks, task{name: sessionCleanupTask, schedule: schedule})
			return
		}
		c.tasks = append(c.tasks, task{
			name:     sessionCleanupTask,
			schedule: schedule,
			handler: func(ctx context.Context) error {
				n, err := store.DeleteExpired(ctx)
				if err != nil {
					return err
				}
				c.logger.InfoContext(ctx, "expired sessions deleted", slog.Int64("count", n))
				return nil
			},
		})
	}
}

// WithLogger sets the logger for job processing. A noop logger is used when not set.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the number of workers of the default queue (100 when not set).
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithRunOnStart runs every periodic task once when the manager starts.
func WithRunOnStart() Option {
	return func(c *config) {
		c.runOnStart = true
	}
}

const sessionCleanupTask = "session_cleanup"
