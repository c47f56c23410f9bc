package engine

import (
	"context"
	"errors"
	"path-route-service/internal/domain"
	"sync"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("engine loop stopped")

// Loop is the engine's single logic thread.
//
// Closures run one at a time, in the order they were queued. The queue is
// unbounded and Post never blocks, so callbacks posted by one goroutine are
// applied in the order that goroutine posted them.
type Loop struct {
	mu      sync.Mutex
	queue   []func(*Engine)
	wake    chan struct{}
	stopped chan struct{}
}

// NewLoop returns an idle loop. The engine is supplied to Run, so the loop's
// Sink can be handed to a bridge before the engine exists.
func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Run executes queued closures against e until ctx is done. Closures still
// queued at that point are discarded. Run must be called at most once.
func (l *Loop) Run(ctx context.Context, e *Engine) {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}

		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn(e)
		}
	}
}

// Post queues fn without waiting for it to run.
func (l *Loop) Post(fn func(*Engine)) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to finish.
// Must not be called from inside a closure running on the loop.
func (l *Loop) Do(ctx context.Context, fn func(*Engine)) error {
	done := make(chan struct{})
	l.Post(func(e *Engine) {
		defer close(done)
		fn(e)
	})

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sink returns a RouteResultSink that applies provider results on the loop.
func (l *Loop) Sink() *LoopSink { return &LoopSink{loop: l} }

func (l *Loop) next() (func(*Engine), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// LoopSink forwards provider callbacks onto a Loop.
type LoopSink struct {
	loop *Loop
}

func (s *LoopSink) LegResult(token domain.Token, origin, destination string, success bool, distanceMeters, durationSeconds string) {
	s.loop.Post(func(e *Engine) {
		e.OnLegResult(token, origin, destination, success, distanceMeters, durationSeconds)
	})
}

func (s *LoopSink) TotalResult(token domain.Token, success bool, totalDistanceMeters, totalDurationSeconds string) {
	s.loop.Post(func(e *Engine) {
		e.OnTotalResult(token, success, totalDistanceMeters, totalDurationSeconds)
	})
}
