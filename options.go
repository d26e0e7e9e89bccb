package pasteboard

import (
	"errors"
	"log/slog"
	"time"
)

// pbConfig holds mutable state during Pasteboard construction.
type pbConfig struct {
	title          string
	host           string
	port           int
	capacity       int
	requestTimeout time.Duration
	logger         *slog.Logger
	pasteCallbacks []func(Entry)
}

// Option is a function that configures a [Pasteboard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*pbConfig) error

// WithHost sets the interface the HTTP server binds to.
//
// Empty (the default) binds all interfaces.
func WithHost(host string) Option {
	return func(cfg *pbConfig) error {
		cfg.host = host
		return nil
	}
}

// WithPort sets the HTTP port for the API and dashboard.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *pbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithCapacity sets how many entries the bounded clipboard keeps.
//
// When the clipboard is full, each new paste evicts the oldest entry.
// Zero is allowed and yields a clipboard that never holds anything.
// Defaults to 10.
//
// Example:
//
//	pb, err := pasteboard.New(
//	    pasteboard.WithCapacity(50),
//	)
//
// Returns an error if n is negative.
func WithCapacity(n int) Option {
	return func(cfg *pbConfig) error {
		if n < 0 {
			return errors.New("capacity cannot be negative")
		}
		cfg.capacity = n
		return nil
	}
}

// WithRequestTimeout sets the deadline for each API request.
//
// Requests that exceed it receive 408 Request Timeout. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *pbConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Pasteboard instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *pbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithPasteCallback registers a function called after every paste into the
// bounded clipboard.
//
// Callbacks run synchronously on the request goroutine, in registration
// order, and must be non-blocking. Panics are recovered and logged.
// Nil callbacks are silently ignored.
func WithPasteCallback(cb func(Entry)) Option {
	return func(cfg *pbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.pasteCallbacks = append(cfg.pasteCallbacks, cb)
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Pasteboard".
func WithTitle(title string) Option {
	return func(cfg *pbConfig) error {
		cfg.title = title
		return nil
	}
}
