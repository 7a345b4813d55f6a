package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/logger"
)

type requestIDKey struct{}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json with extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "info"}, logger.StringValue("request_id", requestIDKey{}), nil)

		ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")
		log.InfoContext(ctx, "Using locale es_AR")
		log.DebugContext(ctx, "hidden")

		out := buf.String()
		require.Contains(t, out, `"msg":"Using locale es_AR"`)
		require.Contains(t, out, `"request_id":"req-1"`)
		require.NotContains(t, out, "hidden")
	})

	t.Run("text with debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "debug", Format: "text"})
		log.Debug("[200] /blog")

		require.Contains(t, buf.String(), `msg="[200] /blog"`)
		require.NotContains(t, buf.String(), "request_id")
	})

	t.Run("extractor skipped without value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{}, logger.StringValue("request_id", requestIDKey{}))
		log.With("app", "blog").Info("hello")

		require.Contains(t, buf.String(), `"app":"blog"`)
		require.NotContains(t, buf.String(), "request_id")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestNewNope(t *testing.T) {
	t.Parallel()
	require.False(t, logger.NewNope().Enabled(context.Background(), slog.LevelError))
}
