package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	health.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("healthy json", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return nil },
		})
		r := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		r.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		h(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"status":"healthy","checks":{"db":{"status":"healthy"}}}`, w.Body.String())
	})

	t.Run("unhealthy text", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"db":    func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("down") },
		})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, "Service Unavailable", w.Body.String())
	})

	t.Run("format query", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{"redis": func(context.Context) error { return errors.New("down") }})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.JSONEq(t, `{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"down"}}}`, w.Body.String())
	})
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	resp := health.Run(context.Background(), health.Checks{
		"slow": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}, health.WithTimeout(10*time.Millisecond))

	require.Equal(t, health.StatusUnhealthy, resp.Status)
	require.Equal(t, context.DeadlineExceeded.Error(), resp.Checks["slow"].Error)
}

func TestRun_NoChecks(t *testing.T) {
	t.Parallel()

	resp := health.Run(context.Background(), nil)
	require.Equal(t, health.StatusHealthy, resp.Status)
	require.Empty(t, resp.Checks)
}
