package ports

import (
	"context"
	"path-route-service/internal/domain"
)

// Outbound boundary to the route-computation provider.
//
// RequestRoute is fire-and-forget: results come back later, tagged with token,
// through a RouteResultSink. Implementations must not block on the computation.
type RouteBridge interface {
	RequestRoute(ctx context.Context, token domain.Token, waypoints []string, separator string)
}

// Inbound boundary from the route-computation provider.
//
// For a given token, zero or more LegResult calls precede exactly one TotalResult.
// Numeric fields are decimal strings (meters, seconds).
type RouteResultSink interface {
	LegResult(token domain.Token, origin, destination string, success bool, distanceMeters, durationSeconds string)
	TotalResult(token domain.Token, success bool, totalDistanceMeters, totalDurationSeconds string)
}
