package job

import "errors"

var (
	// ErrNotConfigured is returned when jobs are used but WithJobs was not configured on the app.
	ErrNotConfigured = errors.New("job: not configured")

	// ErrUnknownTask is returned by the worker for a task name that is not registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidTask is returned for periodic tasks without a name or handler.
	ErrInvalidTask = errors.New("job: invalid task")

	// ErrDuplicateTask is returned when two periodic tasks share a name.
	ErrDuplicateTask = errors.New("job: duplicate task")

	// ErrAlreadyStarted is returned when starting a running manager.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when stopping a manager that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when NewManager gets no database pool.
	ErrPoolRequired = errors.New("job: pool is required")
)
