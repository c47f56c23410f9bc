package routing

import (
	"context"
	"path-route-service/internal/domain"
	"path-route-service/internal/platform/obs"
	"path-route-service/internal/ports"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithField("module", "routing")

// Default number of legs of one path computed in parallel.
const DefaultLegWorkers = 5

// ProviderBridge implements RouteBridge on top of a point-to-point DistanceProvider.
//
// Each request runs in its own goroutine: legs between consecutive waypoints
// are computed concurrently, then reported to the sink strictly in path order,
// followed by one total result. The total succeeds only if every leg did.
// Requests are never cancelled by the engine; the caller's context only
// contributes values (such as the request id), not its deadline.
type ProviderBridge struct {
	provider   ports.DistanceProvider
	sink       ports.RouteResultSink
	legWorkers int

	wg sync.WaitGroup
}

func NewProviderBridge(provider ports.DistanceProvider, sink ports.RouteResultSink, legWorkers int) *ProviderBridge {
	if legWorkers <= 0 {
		legWorkers = DefaultLegWorkers
	}
	return &ProviderBridge{
		provider:   provider,
		sink:       sink,
		legWorkers: legWorkers,
	}
}

type legOutcome struct {
	origin      string
	destination string
	result      ports.DistanceResult
	err         error
}

func (b *ProviderBridge) RequestRoute(ctx context.Context, token domain.Token, waypoints []string, separator string) {
	ctx = context.WithoutCancel(ctx)
	stops := append([]string(nil), waypoints...)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(ctx, token, stops)
	}()
}

// Wait blocks until every in-flight request has delivered its total result.
func (b *ProviderBridge) Wait() {
	b.wg.Wait()
}

func (b *ProviderBridge) run(ctx context.Context, token domain.Token, stops []string) {
	var err error
	defer obs.Time(ctx, "bridge.RequestRoute")(&err)

	fields := logrus.Fields{"token": token, "stops": len(stops)}

	if len(stops) < 2 {
		log.WithFields(fields).Warn("route request needs at least two waypoints")
		b.sink.TotalResult(token, false, "0", "0")
		return
	}

	outcomes := make([]legOutcome, len(stops)-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.legWorkers)
	for i := range outcomes {
		origin, destination := stops[i], stops[i+1]
		g.Go(func() error {
			r, e := b.provider.GetDistance(gctx, origin, destination)
			outcomes[i] = legOutcome{origin: origin, destination: destination, result: r, err: e}
			// Leg failures are reported per leg, never used to cancel siblings.
			return nil
		})
	}
	_ = g.Wait()

	var total ports.DistanceResult
	ok := true
	for _, o := range outcomes {
		if o.err != nil {
			ok = false
			err = o.err
			log.WithFields(fields).WithFields(logrus.Fields{"origin": o.origin, "destination": o.destination}).WithError(o.err).Warn("leg computation failed")
			b.sink.LegResult(token, o.origin, o.destination, false, "0", "0")
			continue
		}

		total.DistanceMeters += o.result.DistanceMeters
		total.DurationSeconds += o.result.DurationSeconds
		b.sink.LegResult(token, o.origin, o.destination, true, formatMetric(o.result.DistanceMeters), formatMetric(o.result.DurationSeconds))
	}

	if !ok {
		b.sink.TotalResult(token, false, "0", "0")
		return
	}
	b.sink.TotalResult(token, true, formatMetric(total.DistanceMeters), formatMetric(total.DurationSeconds))
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
