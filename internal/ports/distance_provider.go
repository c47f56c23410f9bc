package ports

import "context"

// Travel metrics between two waypoints, as reported by the provider.
// Values are kept unrounded; display rounding happens in the domain layer.
type DistanceResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for computing one leg of a route.
type DistanceProvider interface {
	// Return travel distance and estimated duration from origin to destination.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}
