package routing

import (
	"context"
	"path-route-service/internal/domain"
	"sync"
)

// RouteRequest is one call captured by RecordingBridge.
type RouteRequest struct {
	Token     domain.Token
	Waypoints []string
	Separator string
}

// RecordingBridge captures outbound requests without computing anything.
// Tests answer them by calling the engine's callbacks directly.
type RecordingBridge struct {
	mu       sync.Mutex
	requests []RouteRequest
}

func NewRecordingBridge() *RecordingBridge {
	return &RecordingBridge{}
}

func (b *RecordingBridge) RequestRoute(ctx context.Context, token domain.Token, waypoints []string, separator string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, RouteRequest{
		Token:     token,
		Waypoints: append([]string(nil), waypoints...),
		Separator: separator,
	})
}

func (b *RecordingBridge) Requests() []RouteRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]RouteRequest(nil), b.requests...)
}

// Last returns the most recent request.
func (b *RecordingBridge) Last() (RouteRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.requests) == 0 {
		return RouteRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}
