// Package delivery defines the contract every transport entrypoint fulfils.
package delivery

import "context"

// Delivery is one serving surface of the application (an HTTP server, a
// worker). Serve blocks until the surface stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
