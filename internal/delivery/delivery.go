// Package delivery defines the contract every server in the module exposes to
// the composition root.
package delivery

import "context"

// Delivery is a long-running server started by the fx invoke phase.
// Serve blocks until the server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
