// Package pasteboard provides a shared, volatile text clipboard served over HTTP.
//
// Two independent stores are exposed side by side:
//
//   - a bounded clipboard: a fixed-capacity FIFO of anonymous entries where
//     each new paste evicts the oldest entry once the clipboard is full
//   - a keyed store: an unbounded set of entries, each addressed by a
//     randomly generated UUID
//
// All state lives in memory and is lost when the process exits.
//
// # Quick Start
//
//	pb, _ := pasteboard.New(pasteboard.WithCapacity(20))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	pb.Start(ctx) // blocks until context is cancelled
//
// # HTTP API
//
//	POST /paste             {"data": "..."}   add to the bounded clipboard
//	GET  /copy                                list bounded entries, oldest first
//	POST /api/pastes        {"data": "..."}   add to the keyed store, returns {"id": "..."}
//	GET  /api/pastes/{id}                     fetch a keyed entry (404 unknown, 400 malformed)
//	GET  /api/sse                             Server-Sent Events feed of new clipboard entries
//	GET  /metrics                             Prometheus text exposition
//
// API requests run under a deadline (see [WithRequestTimeout]) and answer
// 408 Request Timeout when it elapses.
//
// # Architecture
//
//   - internal/store: the two stores, each a single RWMutex around a container
//   - internal/server: HTTP routing, timeout middleware, SSE, dashboard
//   - internal/metrics: Prometheus counters and gauges
//   - internal/client: HTTP client used by the pasteboard CLI
//   - dashboard: Embedded web UI assets
package pasteboard
