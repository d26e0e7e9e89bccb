package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/pasteboard/internal/metrics"
	"github.com/jpalmerr/pasteboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// maxBodySize limits request bodies on paste endpoints.
	maxBodySize = 1 << 20 // 1MB

	// DefaultRequestTimeout is applied to API routes when Config leaves it unset.
	DefaultRequestTimeout = 10 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Pasteboard"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Config holds the optional settings of a [Server].
type Config struct {
	// Addr is the TCP address to listen on, e.g. ":8080" or "127.0.0.1:0".
	Addr string

	// Title is the dashboard title (defaults to "Pasteboard").
	Title string

	// Assets is the embedded dashboard filesystem. The dashboard route is
	// not registered when nil.
	Assets fs.FS

	// RequestTimeout bounds API requests. Defaults to [DefaultRequestTimeout].
	RequestTimeout time.Duration

	// Metrics receives request counters. A collector over the server's
	// stores is created when nil.
	Metrics *metrics.Collector

	// OnPaste is called after every entry added to the bounded clipboard.
	OnPaste func(store.Entry)
}

// Server handles HTTP requests for the clipboard API and dashboard.
//
// Server provides these endpoints:
//   - POST /paste: Add an entry to the bounded clipboard
//   - GET /copy: Return all bounded clipboard entries, oldest first
//   - POST /api/pastes: Add an entry to the keyed store, returns its id
//   - GET /api/pastes/{id}: Fetch a keyed entry
//   - GET /api/sse: Server-Sent Events stream of new clipboard entries
//   - GET /metrics: Prometheus text exposition
//   - GET /healthz: Liveness probe
//   - GET /: Serves the embedded dashboard HTML
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	clipboard store.Clipboard
	pastes    store.Pastes
	cfg       Config
	metrics   *metrics.Collector
	logger    *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new HTTP [Server] over the given stores.
//
// The server is not started until [Server.Start] is called.
func NewServer(clipboard store.Clipboard, pastes store.Pastes, cfg Config, logger *slog.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	collector := cfg.Metrics
	if collector == nil {
		collector = metrics.NewCollector(clipboard, pastes)
	}

	return &Server{
		clipboard: clipboard,
		pastes:    pastes,
		cfg:       cfg,
		metrics:   collector,
		logger:    logger,
	}
}

// Handler returns the fully wired request handler.
//
// API routes run under the request timeout; streaming and dashboard routes
// do not. Every route is wrapped in the access log.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// bounded clipboard
	mux.Handle("POST /paste", s.withTimeout(http.HandlerFunc(s.handlePaste)))
	mux.Handle("GET /copy", s.withTimeout(http.HandlerFunc(s.handleCopy)))

	// keyed store
	mux.Handle("POST /api/pastes", s.withTimeout(http.HandlerFunc(s.handleSubmit)))
	mux.Handle("GET /api/pastes/{id}", s.withTimeout(http.HandlerFunc(s.handleFetch)))
	// empty id: PathValue yields "" and the store rejects it as malformed
	mux.Handle("GET /api/pastes/{$}", s.withTimeout(http.HandlerFunc(s.handleFetch)))

	mux.HandleFunc("GET /api/sse", s.handleSSE)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.cfg.Assets != nil {
		mux.HandleFunc("GET /{$}", s.handleDashboard)
	}

	return s.withAccessLog(mux)
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured address.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify address availability synchronously
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.cfg.Addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", ln.Addr().String())

	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or nil before [Server.Start].
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// pasteRequest is the body accepted by both paste endpoints.
type pasteRequest struct {
	Data *string `json:"data"`
}

// submitResponse is returned by POST /api/pastes.
type submitResponse struct {
	ID string `json:"id"`
}

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// decodePaste reads a {"data": "..."} body. The data field is required.
func decodePaste(w http.ResponseWriter, r *http.Request) (string, error) {
	var req pasteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if req.Data == nil {
		return "", errors.New("missing data field")
	}
	return *req.Data, nil
}

// handlePaste adds an entry to the bounded clipboard.
func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	data, err := decodePaste(w, r)
	if err != nil {
		s.jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := store.Entry{Data: data}
	s.clipboard.Add(entry)
	s.metrics.ObserveClipboardPaste()
	s.logger.Debug("added clipboard entry", "bytes", len(data))

	if s.cfg.OnPaste != nil {
		s.cfg.OnPaste(entry)
	}

	w.WriteHeader(http.StatusOK)
}

// handleCopy returns all bounded clipboard entries as JSON, oldest first.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("fetching clipboard")
	w.Header().Set("Cache-Control", "no-cache")
	s.jsonResp(w, http.StatusOK, s.clipboard.Snapshot())
}

// handleSubmit adds an entry to the keyed store and returns its identifier.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	data, err := decodePaste(w, r)
	if err != nil {
		s.jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.pastes.Add(data)
	s.metrics.ObserveKeyedPaste()
	s.logger.Debug("added keyed entry", "id", id.String(), "bytes", len(data))

	w.Header().Set("Location", "/api/pastes/"+id.String())
	s.jsonResp(w, http.StatusCreated, submitResponse{ID: id.String()})
}

// handleFetch returns a single keyed entry.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := s.pastes.Get(id)
	switch {
	case errors.Is(err, store.ErrBadID):
		s.metrics.ObserveLookup(metrics.LookupBadRequest)
		s.jsonErr(w, http.StatusBadRequest, fmt.Sprintf("malformed id %q", id))
		return
	case errors.Is(err, store.ErrNotFound):
		s.metrics.ObserveLookup(metrics.LookupNotFound)
		s.jsonErr(w, http.StatusNotFound, fmt.Sprintf("no entry with id %s", id))
		return
	case err != nil:
		s.logger.Error("keyed lookup failed", "id", id, "error", err)
		s.jsonErr(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	s.metrics.ObserveLookup(metrics.LookupFound)
	s.jsonResp(w, http.StatusOK, entry)
}

// handleMetrics writes the Prometheus text exposition.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", metrics.ContentType)
	if err := s.metrics.WriteText(w); err != nil {
		s.logger.Error("failed to write metrics", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.cfg.Assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.cfg.Title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleSSE streams newly pasted clipboard entries via Server-Sent Events.
//
// The current snapshot is sent first, then every subsequent entry. Writes
// carry a deadline so a slow or vanished client cannot pin the handler.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// subscribe before the snapshot so no entry falls between the two
	ch := s.clipboard.Subscribe()
	defer s.clipboard.Unsubscribe(ch)

	// send headers now; clients wait on them before reading events
	if err := rc.Flush(); err != nil {
		return
	}

	for _, entry := range s.clipboard.Snapshot() {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		if err := writeAndFlush(data); err != nil {
			return
		}
	}

	for {
		select {
		case entry, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}

func (s *Server) jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonErr(w http.ResponseWriter, status int, msg string) {
	s.jsonResp(w, status, errorResponse{Error: msg})
}
