package distance

import (
	"fmt"
	"strconv"
	"strings"
)

type coordinates struct {
	Lat float64
	Lon float64
}

// ORS expects [lon, lat].
func (c coordinates) lonLat() []float64 {
	return []float64{c.Lon, c.Lat}
}

// parseGeocode reads a "lat,lon" pair.
func parseGeocode(s string) (coordinates, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return coordinates{}, fmt.Errorf("geocode %q: want \"lat,lon\"", s)
	}

	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: latitude: %w", s, err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: longitude: %w", s, err)
	}

	if la < -90 || la > 90 || lo < -180 || lo > 180 {
		return coordinates{}, fmt.Errorf("geocode %q: out of range", s)
	}
	return coordinates{Lat: la, Lon: lo}, nil
}
