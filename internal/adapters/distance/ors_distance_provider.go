package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path-route-service/internal/domain"
	"path-route-service/internal/platform/obs"
	"path-route-service/internal/ports"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "distance")

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	DefaultORSProfile = "driving-car"
)

// ORSOptions tunes the OpenRouteService endpoint. Zero values select defaults.
type ORSOptions struct {
	BaseURL string
	Profile string
	// ISO country code restricting geocoding; empty searches worldwide.
	Country string
	Timeout time.Duration
}

// ORSDistanceProvider implements DistanceProvider using OpenRouteService.
//
// It coordinates:
//   - Waypoint label normalization
//   - Persistent geocode caching
//   - Persistent distance caching
//   - External API calls with retry/backoff
//
// Either cache may be nil. The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	country       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

func NewORSDistanceProvider(
	apiKey string,
	opts ORSOptions,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultORSBaseURL
	}
	if opts.Profile == "" {
		opts.Profile = DefaultORSProfile
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	provider := &ORSDistanceProvider{
		session:       &http.Client{Timeout: opts.Timeout},
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		profile:       opts.Profile,
		country:       opts.Country,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Compute one leg. Delegates to the batched path to reuse caching and matrix logic.
// A leg whose endpoints normalize to the same label has zero length.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := o.normalize(origin)
	normDestination := o.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get ORS distance %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: no result for %q -> %q", origin, destination)
	}

	return result, nil
}

// Compute distances from a single origin to many destinations.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := o.normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("get ORS distances: origin must be non-empty")
	}

	// Same-label and duplicate destinations never reach the API.
	destList := lo.Uniq(lo.Filter(
		lo.Map(destinations, func(d string, _ int) string { return o.normalize(d) }),
		func(d string, _ int) bool { return d != "" && d != normOrigin },
	))

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationHits := make(map[string]ports.DistanceResult)
	// Check persistent distance cache before issuing external API calls.
	if o.distanceCache != nil {
		var err error
		destinationHits, err = o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("get ORS distances: read distance cache: %w", err)
		}
	}

	destinationMisses := lo.Filter(destList, func(d string, _ int) bool {
		_, hit := destinationHits[d]
		return !hit
	})

	if len(destinationMisses) == 0 {
		return destinationHits, nil
	}

	needed := make([]string, 0, 1+len(destinationMisses))
	needed = append(needed, normOrigin)
	needed = append(needed, destinationMisses...)

	geocodeHits := make(map[string]domain.Coordinates)
	// Resolve coordinates via cache before calling ORS geocoding.
	if o.geocodeCache != nil {
		var err error
		geocodeHits, err = o.geocodeCache.GetMany(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("get ORS distances: read geocode cache: %w", err)
		}
	}

	geocodeMisses := lo.Filter(needed, func(a string, _ int) bool {
		_, hit := geocodeHits[a]
		return !hit
	})

	fresh := make(map[string]domain.Coordinates)
	if len(geocodeMisses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, geocodeMisses)
		if err != nil {
			return nil, fmt.Errorf("get ORS distances: geocode waypoints: %w", err)
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.WithError(err).Warn("geocode cache write failed")
		}
	}

	coords := lo.Assign(geocodeHits, fresh)

	originCoord, ok := coords[normOrigin]
	if !ok {
		return nil, fmt.Errorf("get ORS distances: missing coordinate for origin %q", normOrigin)
	}

	destinationCoords := make([]domain.Coordinates, 0, len(destinationMisses))
	for _, d := range destinationMisses {
		coord, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("get ORS distances: missing coordinate for destination %q", d)
		}
		destinationCoords = append(destinationCoords, coord)
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, originCoord, destinationMisses, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("get ORS distances: fetch matrix row: %w", err)
	}

	missing := lo.Filter(destinationMisses, func(d string, _ int) bool {
		_, ok := fetched[d]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("get ORS distances: matrix omitted destinations: %s", strings.Join(missing, ", "))
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.WithError(err).Warn("distance cache write failed")
		}
	}

	return lo.Assign(destinationHits, fetched), nil
}
