package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jpalmerr/pasteboard/internal/server"
	"github.com/jpalmerr/pasteboard/internal/store"
)

// startServer runs a real handler over fresh stores and returns its URL.
func startServer(t *testing.T, capacity int) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.NewServer(store.NewRingStore(capacity), store.NewKeyedStore(), server.Config{}, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// executeCmd runs the root command against serverURL and returns stdout.
// Command flags are global, so the ones tests touch are reset first.
func executeCmd(t *testing.T, serverURL, stdin string, args ...string) (string, error) {
	t.Helper()

	_ = copyCmd.Flags().Set("last", "false")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	rootCmd.SetArgs(append([]string{"--server", serverURL}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPasteAndCopy(t *testing.T) {
	url := startServer(t, 2)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := executeCmd(t, url, "", "paste", text); err != nil {
			t.Fatalf("paste %q error = %v", text, err)
		}
	}

	out, err := executeCmd(t, url, "", "copy")
	if err != nil {
		t.Fatalf("copy error = %v", err)
	}
	if out != "second\nthird\n" {
		t.Errorf("copy output = %q, want %q", out, "second\nthird\n")
	}

	out, err = executeCmd(t, url, "", "copy", "--last")
	if err != nil {
		t.Fatalf("copy --last error = %v", err)
	}
	if out != "third\n" {
		t.Errorf("copy --last output = %q, want %q", out, "third\n")
	}
}

func TestPaste_FromStdin(t *testing.T) {
	url := startServer(t, 5)

	if _, err := executeCmd(t, url, "piped text\n", "paste"); err != nil {
		t.Fatalf("paste error = %v", err)
	}

	out, err := executeCmd(t, url, "", "copy")
	if err != nil {
		t.Fatalf("copy error = %v", err)
	}
	if out != "piped text\n" {
		t.Errorf("copy output = %q, want %q", out, "piped text\n")
	}
}

func TestCopy_EmptyClipboard(t *testing.T) {
	url := startServer(t, 0)

	if _, err := executeCmd(t, url, "", "paste", "dropped"); err != nil {
		t.Fatalf("paste error = %v", err)
	}

	out, err := executeCmd(t, url, "", "copy", "--last")
	if err != nil {
		t.Fatalf("copy error = %v", err)
	}
	if out != "" {
		t.Errorf("copy output = %q, want empty", out)
	}
}

func TestPutAndGet(t *testing.T) {
	url := startServer(t, 10)

	out, err := executeCmd(t, url, "", "put", "keyed value")
	if err != nil {
		t.Fatalf("put error = %v", err)
	}
	id := strings.TrimSpace(out)
	if len(id) != 36 {
		t.Fatalf("put printed %q, want a UUID", out)
	}

	out, err = executeCmd(t, url, "", "get", id)
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if out != "keyed value\n" {
		t.Errorf("get output = %q, want %q", out, "keyed value\n")
	}
}

func TestGet_Errors(t *testing.T) {
	url := startServer(t, 10)

	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{"unknown id", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "no entry with id"},
		{"malformed id", "not-a-uuid", "is not a valid id"},
		{"empty id", "", "is not a valid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, url, "", "get", tt.id)
			if err == nil {
				t.Fatal("get expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestClientCommands_InvalidServer(t *testing.T) {
	_, err := executeCmd(t, "localhost:8080", "", "copy")
	if err == nil || !strings.Contains(err.Error(), "invalid server URL") {
		t.Errorf("copy with bad --server error = %v, want invalid server URL", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCmd(t, "http://localhost:8080", "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "pasteboard dev") {
		t.Errorf("version output = %q", out)
	}
}
