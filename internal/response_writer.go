package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// ResponseWriter records the status and body size of a response and runs
// commit hooks right before the header is sent.
type ResponseWriter struct {
	http.ResponseWriter

	mu        sync.Mutex
	hooks     []func()
	committed bool
	status    int

	size atomic.Int64
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite registers fn to run once before the header is sent.
// Hooks run in registration order. Hooks added after the commit never run.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	if !w.committed {
		w.hooks = append(w.hooks, fn)
	}
	w.mu.Unlock()
}

// commit sends the header with code unless it was sent already.
// Hooks run outside the lock so they may set headers or cookies.
func (w *ResponseWriter) commit(code int) {
	w.mu.Lock()
	if w.committed {
		w.mu.Unlock()
		return
	}
	w.committed = true
	w.status = code
	hooks := w.hooks
	w.hooks = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
}

// WriteHeader sends the header. Later calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) { w.commit(code) }

// Write sends b, committing a 200 header first if needed.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.size.Add(int64(n))
	return n, err
}

// Status is the committed status code, 200 before the commit.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size is the number of body bytes written so far.
func (w *ResponseWriter) Size() int64 { return w.size.Load() }

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed
}

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the wrapped writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
