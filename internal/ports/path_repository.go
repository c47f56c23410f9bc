package ports

import "context"

// Port: durable storage for the path list and the user's draft parameters.
type PathRepository interface {
	// Return saved raw path strings in list order.
	LoadPaths(ctx context.Context) ([]string, error)
	// Replace the saved path list wholesale.
	SavePaths(ctx context.Context, paths []string) error
	// Return a stored parameter, or "" when it was never set.
	GetParameter(ctx context.Context, key string) (string, error)
	SetParameter(ctx context.Context, key string, value string) error
}
