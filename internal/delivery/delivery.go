// Package delivery defines the contract every transport front-end satisfies.
package delivery

import "context"

// Delivery is a running transport surface, e.g. the HTTP server.
type Delivery interface {
	// Serve blocks until the transport stops or fails.
	Serve(ctx context.Context) error
}
