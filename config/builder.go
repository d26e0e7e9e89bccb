package config

import (
	"log/slog"

	"github.com/jpalmerr/pasteboard"
)

// BuildOptions converts parsed configuration into SDK options for
// [pasteboard.New].
//
// The logger is passed through unchanged; a nil logger leaves the SDK
// default in place.
func BuildOptions(cfg *Config, logger *slog.Logger) []pasteboard.Option {
	opts := []pasteboard.Option{
		pasteboard.WithHost(cfg.Host),
		pasteboard.WithPort(cfg.Port),
		pasteboard.WithCapacity(cfg.Capacity),
		pasteboard.WithRequestTimeout(cfg.RequestTimeout.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, pasteboard.WithTitle(cfg.Title))
	}

	if logger != nil {
		opts = append(opts, pasteboard.WithLogger(logger))
	}

	return opts
}
