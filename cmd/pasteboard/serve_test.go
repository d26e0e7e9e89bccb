package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/jpalmerr/pasteboard"
	"github.com/jpalmerr/pasteboard/config"
)

func newReloader(t *testing.T, buf *bytes.Buffer) *reloader {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(buf, nil))

	running := config.Default()
	pb, err := pasteboard.New(config.BuildOptions(running, logger)...)
	if err != nil {
		t.Fatalf("pasteboard.New() error = %v", err)
	}
	return &reloader{pb: pb, running: running, logger: logger}
}

func mustParse(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	return cfg
}

func TestReloader_Apply(t *testing.T) {
	tests := []struct {
		name        string
		next        string
		wantCap     int
		wantRestart bool
	}{
		{"capacity only", "capacity: 3\n", 3, false},
		{"port change", "capacity: 10\nport: 9999\n", 10, true},
		{"timeout change", "request_timeout: 2s\n", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rl := newReloader(t, &buf)

			rl.apply(mustParse(t, tt.next))

			if rl.pb.Capacity() != tt.wantCap {
				t.Errorf("Capacity() = %d, want %d", rl.pb.Capacity(), tt.wantCap)
			}
			gotRestart := strings.Contains(buf.String(), "require a restart")
			if gotRestart != tt.wantRestart {
				t.Errorf("restart warning logged = %v, want %v\nlog: %s", gotRestart, tt.wantRestart, buf.String())
			}
		})
	}
}

// TestReloader_RevertedChange verifies that reverting a restart-only field
// stops the warning, while the capacity applied in between is kept.
func TestReloader_RevertedChange(t *testing.T) {
	var buf bytes.Buffer
	rl := newReloader(t, &buf)

	steps := []struct {
		doc         string
		wantCap     int
		wantRestart bool
	}{
		{"port: 9999\ncapacity: 4\n", 4, true},
		{"port: 9999\ncapacity: 6\n", 6, true},
		{"capacity: 6\n", 6, false},
		{"capacity: 2\n", 2, false},
	}

	for i, step := range steps {
		buf.Reset()
		rl.apply(mustParse(t, step.doc))

		if rl.pb.Capacity() != step.wantCap {
			t.Errorf("step %d: Capacity() = %d, want %d", i, rl.pb.Capacity(), step.wantCap)
		}
		if rl.running.Capacity != step.wantCap {
			t.Errorf("step %d: running capacity = %d, want %d", i, rl.running.Capacity, step.wantCap)
		}
		if rl.running.Port != config.DefaultPort {
			t.Errorf("step %d: running port = %d, restart-only field must not change", i, rl.running.Port)
		}
		gotRestart := strings.Contains(buf.String(), "require a restart")
		if gotRestart != step.wantRestart {
			t.Errorf("step %d: restart warning logged = %v, want %v", i, gotRestart, step.wantRestart)
		}
	}
}
