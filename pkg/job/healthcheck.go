package job

import (
	"context"
	"errors"
)

var ErrHealthcheckFailed = errors.New("job: healthcheck failed")

// Running reports whether the manager was started and not stopped since.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Healthcheck returns a readiness check that fails while m is not running or
// its database does not answer a ping.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		switch {
		case m == nil:
			return errors.Join(ErrHealthcheckFailed, ErrNotConfigured)
		case !m.Running():
			return errors.Join(ErrHealthcheckFailed, ErrNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
