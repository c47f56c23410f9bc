package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path-route-service/internal/domain"
	"path-route-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves waypoint labels one by one via /geocode/search.
// Labels are expected to be normalized and deduplicated by the caller.
func (o *ORSDistanceProvider) geocodeMany(
	ctx context.Context,
	labels []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	out := make(map[string]domain.Coordinates, len(labels))
	for _, label := range labels {
		if _, ok := out[label]; ok {
			continue
		}

		coord, err := o.geocodeOne(ctx, label)
		if err != nil {
			return nil, err
		}
		out[label] = coord
	}

	return out, nil
}

func (o *ORSDistanceProvider) geocodeOne(ctx context.Context, label string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", label)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", label, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", label, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no results", label)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid coordinate format", label)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
