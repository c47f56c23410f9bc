package routing_test

import (
	"context"
	"path-route-service/internal/adapters/distance"
	"path-route-service/internal/adapters/routing"
	"path-route-service/internal/domain"
	"path-route-service/internal/engine"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkCall struct {
	token       domain.Token
	total       bool
	origin      string
	destination string
	success     bool
	distance    string
	duration    string
}

type recordingSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (s *recordingSink) LegResult(token domain.Token, origin, destination string, success bool, distanceMeters, durationSeconds string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sinkCall{token: token, origin: origin, destination: destination, success: success, distance: distanceMeters, duration: durationSeconds})
}

func (s *recordingSink) TotalResult(token domain.Token, success bool, totalDistanceMeters, totalDurationSeconds string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sinkCall{token: token, total: true, success: success, distance: totalDistanceMeters, duration: totalDurationSeconds})
}

func (s *recordingSink) Calls() []sinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkCall(nil), s.calls...)
}

var europe = []distance.MockPair{
	{From: "Paris", To: "Lyon", Meters: 465000, Seconds: 16200},
	{From: "Lyon", To: "Marseille", Meters: 315000.5, Seconds: 10800},
	{From: "Marseille", To: "Nice", Meters: 200000, Seconds: 7200},
}

func TestProviderBridgeDeliversLegsInOrderThenTotal(t *testing.T) {
	provider := distance.NewMockDistanceProvider(europe)
	sink := &recordingSink{}
	bridge := routing.NewProviderBridge(provider, sink, 2)

	bridge.RequestRoute(context.Background(), "t1", []string{"Paris", "Lyon", "Marseille", "Nice"}, ",")
	bridge.Wait()

	calls := sink.Calls()
	require.Len(t, calls, 4)

	assert.Equal(t, sinkCall{token: "t1", origin: "Paris", destination: "Lyon", success: true, distance: "465000", duration: "16200"}, calls[0])
	assert.Equal(t, "Lyon", calls[1].origin)
	assert.Equal(t, "315000.5", calls[1].distance)
	assert.Equal(t, "Marseille", calls[2].origin)
	assert.Equal(t, sinkCall{token: "t1", total: true, success: true, distance: "980000.5", duration: "34200"}, calls[3])
	assert.Equal(t, 3, provider.Calls())
}

func TestProviderBridgeFailedLegFailsTotal(t *testing.T) {
	provider := distance.NewMockDistanceProvider(europe)
	sink := &recordingSink{}
	bridge := routing.NewProviderBridge(provider, sink, 0)

	bridge.RequestRoute(context.Background(), "t2", []string{"Paris", "Atlantis", "Nice"}, ",")
	bridge.Wait()

	calls := sink.Calls()
	require.Len(t, calls, 3)
	assert.False(t, calls[0].success)
	assert.False(t, calls[1].success)
	assert.True(t, calls[2].total)
	assert.False(t, calls[2].success)
}

func TestProviderBridgeIgnoresCallerCancellation(t *testing.T) {
	provider := distance.NewMockDistanceProvider(europe)
	sink := &recordingSink{}
	bridge := routing.NewProviderBridge(provider, sink, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bridge.RequestRoute(ctx, "t3", []string{"Paris", "Lyon"}, ",")
	bridge.Wait()

	calls := sink.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[1].success)
}

func TestProviderBridgeTooFewWaypoints(t *testing.T) {
	sink := &recordingSink{}
	bridge := routing.NewProviderBridge(distance.NewMockDistanceProvider(nil), sink, 0)

	bridge.RequestRoute(context.Background(), "t4", []string{"Paris"}, ",")
	bridge.Wait()

	calls := sink.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].total)
	assert.False(t, calls[0].success)
}

func TestProviderBridgeDrivesEngineThroughLoop(t *testing.T) {
	loop := engine.NewLoop()
	bridge := routing.NewProviderBridge(distance.NewMockDistanceProvider(europe), loop.Sink(), 0)
	eng := engine.New(bridge, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx, eng)

	var (
		id     domain.EntryID
		addErr error
	)
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) {
		id, addErr = e.AddDraft(ctx, "Paris\nLyon\nMarseille", true)
	}))
	require.NoError(t, addErr)

	bridge.Wait()

	var (
		entry  domain.PathEntry
		totals domain.Totals
	)
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) {
		entry, _ = e.Entry(id)
		totals = e.Totals()
	}))

	assert.Equal(t, domain.StatusSucceeded, entry.Status)
	require.Len(t, entry.Legs, 2)
	assert.Equal(t, "Paris , Lyon", entry.Legs[0].Label())
	assert.Equal(t, "780.00 km", entry.DistanceDisplay())
	assert.Equal(t, 780000.5, totals.DistanceMeters)
	assert.Equal(t, "Total: 780.00 km,7.50 h", totals.Summary())
}
