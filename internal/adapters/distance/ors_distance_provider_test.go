package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path-route-service/internal/domain"
	"path-route-service/internal/ports"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) GetMany(_ context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, labels []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, l := range labels {
		if v, ok := c.m[l]; ok {
			out[l] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

// fakeORS serves geocode and matrix responses for a tiny known world.
func fakeORS(t *testing.T, geocodeCalls, matrixCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	places := map[string][]float64{
		"Hub":    {8.68, 49.41},
		"Depot":  {8.69, 49.42},
		"Market": {8.70, 49.43},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		coords, ok := places[r.URL.Query().Get("text")]
		features := []map[string]any{}
		if ok {
			features = append(features, map[string]any{"geometry": map[string]any{"coordinates": coords}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": features})
	})
	mux.HandleFunc("/v2/matrix/driving-car", func(w http.ResponseWriter, r *http.Request) {
		matrixCalls.Add(1)

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		distances := make([]*float64, 0, len(req.Destinations))
		durations := make([]*float64, 0, len(req.Destinations))
		for _, i := range req.Destinations {
			d := 1000.5 * float64(i)
			s := 60.25 * float64(i)
			distances = append(distances, &d)
			durations = append(durations, &s)
		}
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{distances},
			Durations: [][]*float64{durations},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestORSGetDistanceUsesCaches(t *testing.T) {
	var geocodeCalls, matrixCalls atomic.Int32
	srv := fakeORS(t, &geocodeCalls, &matrixCalls)

	dc := &memDistanceCache{m: map[string]ports.DistanceResult{}}
	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	p, err := NewORSDistanceProvider("test-key", ORSOptions{BaseURL: srv.URL}, dc, gc)
	require.NoError(t, err)

	ctx := context.Background()
	r, err := p.GetDistance(ctx, "  Hub ", "Depot")
	require.NoError(t, err)
	assert.InDelta(t, 1000.5, r.DistanceMeters, 1e-9)
	assert.InDelta(t, 60.25, r.DurationSeconds, 1e-9)
	assert.EqualValues(t, 2, geocodeCalls.Load())
	assert.EqualValues(t, 1, matrixCalls.Load())

	// Second lookup is served from the distance cache.
	r2, err := p.GetDistance(ctx, "Hub", "Depot")
	require.NoError(t, err)
	assert.Equal(t, r, r2)
	assert.EqualValues(t, 1, matrixCalls.Load())

	// New destination: only the unknown label is geocoded.
	_, err = p.GetDistance(ctx, "Hub", "Market")
	require.NoError(t, err)
	assert.EqualValues(t, 3, geocodeCalls.Load())
}

func TestORSGetDistanceSameLabelIsZero(t *testing.T) {
	p, err := NewORSDistanceProvider("k", ORSOptions{BaseURL: "http://127.0.0.1:0"}, nil, nil)
	require.NoError(t, err)

	r, err := p.GetDistance(context.Background(), "Hub", " Hub ")
	require.NoError(t, err)
	assert.Equal(t, ports.DistanceResult{}, r)
}

func TestORSGetDistanceUnknownPlace(t *testing.T) {
	var geocodeCalls, matrixCalls atomic.Int32
	srv := fakeORS(t, &geocodeCalls, &matrixCalls)

	p, err := NewORSDistanceProvider("test-key", ORSOptions{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	_, err = p.GetDistance(context.Background(), "Hub", "Atlantis")
	assert.ErrorContains(t, err, "Atlantis")
	assert.Zero(t, matrixCalls.Load())
}

func TestORSRetriesTransientStatus(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"features": []any{map[string]any{"geometry": map[string]any{"coordinates": []float64{1, 2}}}},
		})
	}))
	defer srv.Close()

	p, err := NewORSDistanceProvider("k", ORSOptions{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	coords, err := p.geocodeMany(context.Background(), []string{"Anywhere"})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 1, Lat: 2}, coords["Anywhere"])
	assert.EqualValues(t, 3, attempts.Load())
}

func TestNewORSDistanceProviderRequiresKey(t *testing.T) {
	_, err := NewORSDistanceProvider(" ", ORSOptions{}, nil, nil)
	assert.Error(t, err)
}
