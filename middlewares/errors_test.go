package middlewares_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/middlewares"
)

func TestTypedErrors(t *testing.T) {
	t.Parallel()

	pe := &middlewares.PanicError{Value: 42}
	te := &middlewares.TimeoutError{Duration: 3 * time.Second}

	require.Equal(t, "panic: 42", pe.Error())
	require.Equal(t, "request timeout after 3s", te.Error())

	wrapped := fmt.Errorf("view failed: %w", pe)
	require.True(t, middlewares.IsPanicError(wrapped))
	got, ok := middlewares.AsPanicError(wrapped)
	require.True(t, ok)
	require.Same(t, pe, got)

	wrapped = errors.Join(errors.New("other"), te)
	require.True(t, middlewares.IsTimeoutError(wrapped))
	gotT, ok := middlewares.AsTimeoutError(wrapped)
	require.True(t, ok)
	require.Equal(t, 3*time.Second, gotT.Duration)

	plain := errors.New("plain")
	require.False(t, middlewares.IsPanicError(plain))
	require.False(t, middlewares.IsTimeoutError(plain))
	_, ok = middlewares.AsPanicError(plain)
	require.False(t, ok)
	_, ok = middlewares.AsTimeoutError(plain)
	require.False(t, ok)
}

func TestPanicError_Unwrap(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	require.ErrorIs(t, &middlewares.PanicError{Value: fmt.Errorf("wrapped: %w", boom)}, boom)
	require.NoError(t, (&middlewares.PanicError{Value: "text"}).Unwrap())
	require.Equal(t, 500, (&middlewares.PanicError{}).StatusCode())
	require.Equal(t, 504, (&middlewares.TimeoutError{}).StatusCode())
}
