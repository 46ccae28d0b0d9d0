package trigger

// This file defines the API for single-instance ownership and remote capture
// triggering. The resident process owns a loopback TCP endpoint; a second
// invocation or the companion CLI delegates a capture request to it instead
// of starting its own overlay.

import (
	"context"
)

// Server owns the TCP endpoint and answers capture-trigger requests.
type Server interface {
	// Start begins listening on the start port of the configured range and
	// accepting client requests. A busy port means another resident exists.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection awaiting a response.
type Conn interface {
	// RespondOK acknowledges that the capture request was enqueued.
	RespondOK() error
	// RespondError sends an error with a human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Client attempts to delegate a capture trigger to a resident server.
type Client interface {
	// TryCapture scans the configured TCP range, performs the PING handshake,
	// and asks the resident to start a capture. If no resident is found,
	// returns delegated=false, err=nil.
	TryCapture(ctx context.Context) (delegated bool, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
