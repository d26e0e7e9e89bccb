package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpalmerr/pasteboard/internal/client"
)

var snippets = []string{
	"kubectl get pods -n payments",
	"SELECT count(*) FROM orders WHERE created_at > now() - interval '1 day';",
	"https://example.com/runbooks/on-call",
	"ssh -J bastion.example.com app-01.internal",
	"git log --oneline --graph --decorate -20",
	"curl -s localhost:8080/copy | jq .",
}

// runFeeder pastes a rotating snippet into the server at base every
// interval, and stores one keyed entry on startup.
func runFeeder(ctx context.Context, base string, interval time.Duration) {
	// the server listens on all interfaces; dial loopback
	base = strings.Replace(base, "http://:", "http://localhost:", 1)

	c, err := client.New(base, client.WithTimeout(2*time.Second))
	if err != nil {
		slog.Error("feeder: bad server URL", "url", base, "error", err)
		return
	}
	defer c.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	keyed := false
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !keyed {
			id, err := c.Submit(ctx, "pinned: deploy freeze starts Friday 17:00")
			if err == nil {
				keyed = true
				slog.Info("feeder: stored keyed entry", "url", fmt.Sprintf("%s/api/pastes/%s", base, id))
			}
		}

		text := snippets[i%len(snippets)]
		if err := c.Paste(ctx, text); err != nil {
			slog.Warn("feeder: paste failed", "error", err)
		}
	}
}
