// Package client provides an HTTP client for a running Pasteboard server.
//
// It is used by the pasteboard CLI for the paste, copy, put and get
// commands. Status codes returned by the server are mapped to the sentinel
// errors [ErrNotFound], [ErrBadRequest] and [ErrTimeout] so callers can
// branch with errors.Is.
package client
