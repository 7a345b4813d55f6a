package middlewares_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/middlewares"
)

func TestRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		h    internal.HandlerFunc
		want string
	}{
		{
			name: "ok",
			path: "/open?x=1",
			h:    func(c internal.Context) error { return c.String(http.StatusOK, "ok") },
			want: "[200] http://example.com/open",
		},
		{
			name: "no body",
			path: "/",
			h:    func(internal.Context) error { return nil },
			want: "[200] http://example.com/",
		},
		{
			name: "rendered error",
			path: "/blog/",
			h:    func(internal.Context) error { return errors.New("boom") },
			want: "[500] http://example.com/blog/",
		},
		{
			name: "escaped path",
			path: "/blog/caf%C3%A9",
			h:    nil,
			want: "[404] http://example.com/blog/caf%C3%A9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			serve(t, httptest.NewRequest(http.MethodGet, tt.path, nil), tt.h,
				[]internal.Middleware{middlewares.Requests(), middlewares.Errors()},
				internal.WithCustomLogger(log))

			require.Contains(t, buf.String(), tt.want)
		})
	}

	t.Run("quiet above debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), nil,
			[]internal.Middleware{middlewares.Requests()}, internal.WithCustomLogger(log))
		require.NotContains(t, buf.String(), "[200]")
	})
}
