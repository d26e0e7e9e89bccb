package pasteboard

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	pb, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if pb.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", pb.Port(), 8080)
	}
	if pb.Capacity() != 10 {
		t.Errorf("Capacity() = %v, want %v", pb.Capacity(), 10)
	}
	if pb.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout() = %v, want %v", pb.RequestTimeout(), 10*time.Second)
	}
	if pb.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want %q", pb.Addr(), ":8080")
	}
}

func TestWithHostAndPort(t *testing.T) {
	pb, err := New(WithHost("127.0.0.1"), WithPort(9090))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if pb.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want %q", pb.Addr(), "127.0.0.1:9090")
	}
}

func TestWithPort_Invalid(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too high", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithPort(tt.port)); err == nil {
				t.Errorf("New() expected error for port %v, got nil", tt.port)
			}
		})
	}
}

func TestWithCapacity(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"zero allowed", 0, false},
		{"positive", 50, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, err := New(WithCapacity(tt.n))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New() expected error for capacity %d, got nil", tt.n)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if pb.Capacity() != tt.n {
				t.Errorf("Capacity() = %d, want %d", pb.Capacity(), tt.n)
			}
		})
	}
}

func TestWithRequestTimeout_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := New(WithRequestTimeout(d)); err == nil {
			t.Errorf("New() expected error for request timeout %v, got nil", d)
		}
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	pb, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := pb.SetCapacity(3); err != nil {
		t.Fatalf("SetCapacity() error = %v", err)
	}
	if !strings.Contains(buf.String(), "clipboard capacity changed") {
		t.Errorf("expected custom logger to receive output, got: %s", buf.String())
	}
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithLogger(nil))
	if err == nil {
		t.Error("New() expected error for nil logger, got nil")
	}
}

func TestWithPasteCallback_NilIgnored(t *testing.T) {
	pb, err := New(WithPasteCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(pb.pasteCallbacks) != 0 {
		t.Errorf("nil callback should not be registered")
	}
}

func TestWithTitle(t *testing.T) {
	pb, err := New(WithTitle("Team clipboard"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if pb.title != "Team clipboard" {
		t.Errorf("title = %q, want %q", pb.title, "Team clipboard")
	}
}
