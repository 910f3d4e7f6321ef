package server

import "context"

// HealthChecker reports whether a dependency can still serve traffic.
// The database pool is the implementation the API binary wires in.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}
