package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// withTimeout runs next under the configured request deadline.
//
// The handler writes into a buffer that is copied to the client only if it
// finishes in time. Otherwise the client receives 408 Request Timeout and
// whatever the handler writes afterwards is discarded.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()

		buf := newBufferedWriter()
		done := make(chan struct{})
		var aborted bool

		go func() {
			defer close(done)
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					// re-raised on the serving goroutine below
					aborted = true
					return
				}
				s.logger.Error("handler panicked", "panic", p, "path", r.URL.Path)
				buf.fail(http.StatusInternalServerError, "internal error")
			}()
			next.ServeHTTP(buf, r.WithContext(ctx))
		}()

		select {
		case <-done:
			if aborted {
				panic(http.ErrAbortHandler)
			}
			buf.copyTo(w)

		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// client went away or server is shutting down
				return
			}
			s.metrics.ObserveTimeout()
			s.logger.Warn("request timed out",
				"method", r.Method,
				"path", r.URL.Path,
				"timeout", s.cfg.RequestTimeout.String(),
			)
			s.jsonErr(w, http.StatusRequestTimeout, "request timed out")
		}
	})
}

// bufferedWriter is an http.ResponseWriter that holds the response in memory.
type bufferedWriter struct {
	mu     sync.Mutex
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// fail replaces the buffered response with a plain error.
func (b *bufferedWriter) fail(status int, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.header = http.Header{"Content-Type": {"text/plain; charset=utf-8"}}
	b.status = status
	b.body.Reset()
	b.body.WriteString(msg + "\n")
}

func (b *bufferedWriter) copyTo(w http.ResponseWriter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(b.body.Bytes())
}

// withAccessLog logs every request at DEBUG level.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(p)
}

// Flush keeps SSE working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
