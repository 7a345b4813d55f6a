package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/notify"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*notify.Email
	err  error
}

func (s *recordingSender) Send(_ context.Context, e *notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, e)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func report() notify.Report {
	return notify.Report{
		Time:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Err:       errors.New("connection <refused>"),
		RequestID: "req-1",
		Method:    "POST",
		URL:       "/blog/posts/save",
		View:      "blog.posts.save",
		Stack:     []byte("goroutine 1 [running]"),
		Status:    500,
	}
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	t.Run("composes report", func(t *testing.T) {
		t.Parallel()
		s := &recordingSender{}
		n := notify.New(s, notify.Config{To: []string{"ops@example.com"}, SubjectPrefix: "[site]"})

		require.NoError(t, n.Notify(context.Background(), report()))
		require.Equal(t, 1, s.count())

		e := s.sent[0]
		require.Equal(t, []string{"ops@example.com"}, e.To)
		require.Equal(t, "[site] 500 POST /blog/posts/save", e.Subject)
		require.Contains(t, e.Text, "blog.posts.save")
		require.Contains(t, e.Text, "req-1")
		require.Contains(t, e.Text, "goroutine 1")
		require.Contains(t, e.HTML, "<table>")
		require.Contains(t, e.HTML, "connection &lt;refused&gt;")
		require.NotContains(t, e.HTML, "<refused>")
	})

	t.Run("throttles identical reports", func(t *testing.T) {
		t.Parallel()
		s := &recordingSender{}
		n := notify.New(s, notify.Config{To: []string{"ops@example.com"}, Throttle: time.Hour})

		require.NoError(t, n.Notify(context.Background(), report()))
		require.NoError(t, n.Notify(context.Background(), report()))
		require.Equal(t, 1, s.count())

		other := report()
		other.Err = errors.New("another failure")
		require.NoError(t, n.Notify(context.Background(), other))
		require.Equal(t, 2, s.count())
	})

	t.Run("send failure is not throttled", func(t *testing.T) {
		t.Parallel()
		s := &recordingSender{err: errors.New("api down")}
		n := notify.New(s, notify.Config{To: []string{"ops@example.com"}})

		err := n.Notify(context.Background(), report())
		require.ErrorIs(t, err, notify.ErrSend)

		s.mu.Lock()
		s.err = nil
		s.mu.Unlock()
		require.NoError(t, n.Notify(context.Background(), report()))
		require.Equal(t, 1, s.count())
	})

	t.Run("no recipients", func(t *testing.T) {
		t.Parallel()
		n := notify.New(&recordingSender{}, notify.Config{})
		require.ErrorIs(t, n.Notify(context.Background(), report()), notify.ErrNoRecipients)
	})
}
