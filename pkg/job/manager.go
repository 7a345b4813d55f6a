package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/duende/pkg/logger"
)

const defaultMaxWorkers = 100

// Manager runs periodic tasks on River. Every process of the application
// may start one; River's leader election runs each tick once.
type Manager struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	tasks  map[string]Handler
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager validates the registered tasks and creates the River client.
// Call Start to begin running them.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewNope()
	}
	if cfg.maxWorkers == 0 {
		cfg.maxWorkers = defaultMaxWorkers
	}

	tasks, periodic, err := buildPeriodicJobs(cfg)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &periodicWorker{tasks: tasks, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: cfg.maxWorkers}},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		client: client,
		pool:   pool,
		tasks:  tasks,
		logger: cfg.logger,
	}, nil
}

func buildPeriodicJobs(cfg *config) (map[string]Handler, []*river.PeriodicJob, error) {
	tasks := make(map[string]Handler, len(cfg.tasks))
	periodic := make([]*river.PeriodicJob, 0, len(cfg.tasks))

	for _, t := range cfg.tasks {
		if t.name == "" || t.handler == nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidTask, t.name)
		}
		if _, ok := tasks[t.name]; ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateTask, t.name)
		}
		schedule, err := parseSchedule(t.schedule)
		if err != nil {
			return nil, nil, fmt.Errorf("job: invalid schedule %q for %s: %w", t.schedule, t.name, err)
		}

		tasks[t.name] = t.handler
		name := t.name
		periodic = append(periodic, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return periodicArgs{Task: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: cfg.runOnStart},
		))
	}
	return tasks, periodic, nil
}

// Start begins running periodic tasks.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Int("tasks", len(m.tasks)))
	return nil
}

// Stop waits for running tasks to finish and stops the manager.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Shutdown returns Stop as a shutdown hook. A manager that never started is not an error.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}

// Tasks returns the number of registered periodic tasks.
func (m *Manager) Tasks() int {
	return len(m.tasks)
}

type periodicArgs struct {
	Task string `json:"task"`
}

func (periodicArgs) Kind() string { return "duende:periodic" }

type periodicWorker struct {
	river.WorkerDefaults[periodicArgs]
	tasks  map[string]Handler
	logger *slog.Logger
}

func (w *periodicWorker) Work(ctx context.Context, job *river.Job[periodicArgs]) error {
	return w.run(ctx, job.Args.Task, job.ID, job.Attempt)
}

func (w *periodicWorker) run(ctx context.Context, name string, id int64, attempt int) error {
	fn, ok := w.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	start := time.Now()
	if err := fn(ctx); err != nil {
		w.logger.ErrorContext(ctx, "task failed",
			slog.String("task", name),
			slog.Int64("job_id", id),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		return err
	}

	w.logger.DebugContext(ctx, "task completed",
		slog.String("task", name),
		slog.Int64("job_id", id),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

type cronSchedule struct {
	schedule cron.Schedule
}

func (s cronSchedule) Next(current time.Time) time.Time {
	return s.schedule.Next(current)
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func parseSchedule(expr string) (river.PeriodicSchedule, error) {
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return cronSchedule{schedule: schedule}, nil
}
