// Package dashboard provides the embedded web UI assets for Pasteboard.
//
// The page lets a browser paste into the bounded clipboard, watch it update
// live over the SSE feed, and create or fetch keyed entries. It is compiled
// into the binary so a single executable serves both the API and the UI.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Clipboard page with inline CSS and JavaScript
//
// The server substitutes the {{.Title}} placeholder before serving.
//
//go:embed assets/*
var Assets embed.FS
