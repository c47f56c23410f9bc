package engine_test

import (
	"context"
	"path-route-service/internal/adapters/routing"
	"path-route-service/internal/domain"
	"path-route-service/internal/engine"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopAppliesSinkCallbacksInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := engine.NewLoop()
	bridge := routing.NewRecordingBridge()
	e := engine.New(bridge, nil)
	go loop.Run(ctx, e)

	var token domain.Token
	var id domain.EntryID
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) {
		id, _ = e.Add("A,B,C,D")
		token, _ = e.Submit(ctx, id)
	}))

	sink := loop.Sink()
	sink.LegResult(token, "A", "B", true, "1", "1")
	sink.LegResult(token, "B", "C", true, "2", "2")
	sink.LegResult(token, "C", "D", true, "3", "3")
	sink.TotalResult(token, true, "6", "6")

	var entry domain.PathEntry
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) {
		entry, _ = e.Entry(id)
	}))

	require.Len(t, entry.Legs, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{entry.Legs[0].Origin, entry.Legs[1].Origin, entry.Legs[2].Origin})
	assert.Equal(t, domain.StatusSucceeded, entry.Status)
}

func TestLoopSerializesConcurrentCallers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := engine.NewLoop()
	e := engine.New(routing.NewRecordingBridge(), nil)
	go loop.Run(ctx, e)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = loop.Do(ctx, func(e *engine.Engine) { e.Add("A,B") })
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) { n = e.Len() }))
	assert.Equal(t, 50, n)
}

func TestLoopDoAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	loop := engine.NewLoop()
	done := make(chan struct{})
	go func() {
		loop.Run(ctx, engine.New(routing.NewRecordingBridge(), nil))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	err := loop.Do(context.Background(), func(*engine.Engine) {})
	assert.ErrorIs(t, err, engine.ErrLoopStopped)
}
