package pasteboard

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/jpalmerr/pasteboard/dashboard"
	"github.com/jpalmerr/pasteboard/internal/metrics"
	"github.com/jpalmerr/pasteboard/internal/server"
	"github.com/jpalmerr/pasteboard/internal/store"
)

const (
	defaultPort           = 8080
	defaultCapacity       = 10
	defaultRequestTimeout = 10 * time.Second
)

// Entry is a single unit of bounded clipboard content, as delivered to
// paste callbacks and returned by [Pasteboard.Entries].
type Entry struct {
	Data string
}

// Pasteboard owns the clipboard stores and serves them over HTTP.
//
// Pasteboard is created using [New] with functional options and started
// with [Pasteboard.Start]. Both stores are constructed by New and live as
// long as the Pasteboard; they are handed to the HTTP layer explicitly.
//
// The typical lifecycle is:
//
//	pb, err := pasteboard.New(pasteboard.WithCapacity(20))
//	if err != nil {
//	    slog.Error("failed to create pasteboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	pb.Start(ctx) // blocks until context cancelled
type Pasteboard struct {
	title          string
	host           string
	port           int
	requestTimeout time.Duration
	logger         *slog.Logger
	pasteCallbacks []func(Entry)

	clipboard *store.RingStore
	pastes    *store.KeyedStore
	metrics   *metrics.Collector
}

// New creates a new [Pasteboard] instance with the given options.
//
// Defaults:
//   - Port: 8080 on all interfaces
//   - Clipboard capacity: 10
//   - Request timeout: 10 seconds
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Pasteboard, error) {
	cfg := &pbConfig{
		port:           defaultPort,
		capacity:       defaultCapacity,
		requestTimeout: defaultRequestTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	clipboard := store.NewRingStore(cfg.capacity)
	pastes := store.NewKeyedStore()

	return &Pasteboard{
		title:          cfg.title,
		host:           cfg.host,
		port:           cfg.port,
		requestTimeout: cfg.requestTimeout,
		logger:         logger,
		pasteCallbacks: cfg.pasteCallbacks,
		clipboard:      clipboard,
		pastes:         pastes,
		metrics:        metrics.NewCollector(clipboard, pastes),
	}, nil
}

// Start serves the clipboard API and dashboard.
//
// Start is a blocking call that runs until the provided context is
// cancelled. The caller controls the lifecycle via context cancellation;
// for signal handling use [signal.NotifyContext].
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start.
func (pb *Pasteboard) Start(ctx context.Context) error {
	addr := pb.Addr()
	pb.logger.Info("pasteboard starting",
		"addr", addr,
		"capacity", pb.Capacity(),
		"request_timeout", pb.requestTimeout.String(),
	)

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	httpServer := server.NewServer(pb.clipboard, pb.pastes, server.Config{
		Addr:           addr,
		Title:          pb.title,
		Assets:         dashboard.Assets,
		RequestTimeout: pb.requestTimeout,
		Metrics:        pb.metrics,
		OnPaste:        pb.firePasteCallbacks,
	}, pb.logger)

	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	pb.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", pb.port))

	<-ctx.Done()
	pb.logger.Info("pasteboard stopped")
	return nil
}

// Addr returns the configured listen address.
func (pb *Pasteboard) Addr() string {
	return net.JoinHostPort(pb.host, strconv.Itoa(pb.port))
}

// Port returns the configured HTTP port.
func (pb *Pasteboard) Port() int {
	return pb.port
}

// RequestTimeout returns the deadline applied to API requests.
func (pb *Pasteboard) RequestTimeout() time.Duration {
	return pb.requestTimeout
}

// Capacity returns the current capacity of the bounded clipboard.
func (pb *Pasteboard) Capacity() int {
	return pb.clipboard.Stats().Capacity
}

// SetCapacity changes the bounded clipboard capacity at runtime.
//
// Shrinking evicts the oldest entries. Returns an error for negative values.
func (pb *Pasteboard) SetCapacity(n int) error {
	if n < 0 {
		return fmt.Errorf("capacity cannot be negative, got %d", n)
	}
	old := pb.Capacity()
	pb.clipboard.Resize(n)
	if old != n {
		pb.logger.Info("clipboard capacity changed", "from", old, "to", n)
	}
	return nil
}

// Entries returns the current bounded clipboard contents, oldest first.
func (pb *Pasteboard) Entries() []Entry {
	snap := pb.clipboard.Snapshot()
	out := make([]Entry, len(snap))
	for i, e := range snap {
		out[i] = Entry{Data: e.Data}
	}
	return out
}

// firePasteCallbacks runs every registered callback for a new entry.
func (pb *Pasteboard) firePasteCallbacks(e store.Entry) {
	if len(pb.pasteCallbacks) == 0 {
		return
	}
	public := Entry{Data: e.Data}
	for _, cb := range pb.pasteCallbacks {
		invokeCallbackSafe(cb, public, pb.logger)
	}
}

// invokeCallbackSafe calls a paste callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Entry), e Entry, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("paste callback panicked", "panic", r, "bytes", len(e.Data))
		}
	}()
	cb(e)
}
