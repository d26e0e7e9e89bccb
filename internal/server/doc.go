// Package server provides the HTTP server for the Pasteboard API and dashboard.
//
// This package is internal to Pasteboard and handles all HTTP concerns:
//
//   - Bounded clipboard: "POST /paste" and "GET /copy"
//   - Keyed store: "POST /api/pastes" and "GET /api/pastes/{id}"
//   - Server-Sent Events: new clipboard entries at "/api/sse"
//   - Metrics: Prometheus text exposition at "/metrics"
//   - Dashboard serving: the embedded HTML page at "/"
//
// API routes run under a per-request deadline and answer 408 when it
// elapses. The server supports graceful shutdown via context cancellation,
// with a 5-second timeout for in-flight requests.
//
// Users of the pasteboard library should not need to interact with this
// package directly. The server is started by [pasteboard.Pasteboard.Start].
package server
