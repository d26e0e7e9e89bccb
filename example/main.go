package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pasteboard"
)

func main() {
	pb, err := pasteboard.New(
		pasteboard.WithPort(8080),
		pasteboard.WithCapacity(5),
		pasteboard.WithRequestTimeout(5*time.Second),
		pasteboard.WithTitle("Pasteboard Demo"),
		pasteboard.WithPasteCallback(func(e pasteboard.Entry) {
			slog.Info("new clipboard entry", "bytes", len(e.Data))
		}),
	)
	if err != nil {
		slog.Error("failed to create pasteboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Pasteboard Demo                                     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   A feeder pastes a snippet every 3s; the clipboard   ║")
	fmt.Println("  ║   keeps the newest 5.                                 ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start feeder (see feeder.go)
	go runFeeder(ctx, "http://"+pb.Addr(), 3*time.Second)

	if err := pb.Start(ctx); err != nil {
		slog.Error("pasteboard error", "error", err)
		os.Exit(1)
	}
}
