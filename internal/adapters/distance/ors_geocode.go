package distance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocode resolves a district name using OpenRouteService (/geocode/search).
func (o *ORSEdgeSource) geocode(ctx context.Context, name string) (coordinates, error) {
	text := strings.Join(strings.Fields(name), " ")
	if text == "" {
		return coordinates{}, fmt.Errorf("geocode: empty name")
	}

	q := url.Values{}
	q.Set("text", text)
	q.Set("size", "1")
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}

	var decoded geocodeResponse
	if err := o.call(ctx, http.MethodGet, "/geocode/search", q, nil, &decoded); err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: %w", text, err)
	}

	if len(decoded.Features) == 0 {
		return coordinates{}, fmt.Errorf("no geocode results for %q", text)
	}

	c := decoded.Features[0].Geometry.Coordinates
	if len(c) != 2 {
		return coordinates{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	return coordinates{Lon: c[0], Lat: c[1]}, nil
}
