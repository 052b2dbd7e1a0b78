package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned for latitude/longitude outside the globe.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Validate rejects NaN and out-of-range latitude or longitude.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

// Classification is the display category and health guidance for a level.
type Classification struct {
	Category     string `json:"category"`
	HealthImpact string `json:"health_impact"`
}

// Classify buckets a decibel level.
func Classify(level float64) Classification {
	switch {
	case level < 45:
		return Classification{Category: "Very Quiet", HealthImpact: "No health impact"}
	case level < 55:
		return Classification{Category: "Quiet", HealthImpact: "No significant health impact"}
	case level < 65:
		return Classification{Category: "Moderate", HealthImpact: "Minimal health impact"}
	case level < 75:
		return Classification{Category: "Loud", HealthImpact: "Moderate health impact"}
	default:
		return Classification{Category: "Very Loud", HealthImpact: "Significant health impact"}
	}
}

// NearestReading returns the heatmap point closest to c.
// ok is false when points is empty.
func NearestReading(points []HeatPoint, c Coordinates) (p HeatPoint, ok bool) {
	best := math.Inf(1)
	for _, pt := range points {
		d := DistanceKm(c, Coordinates{Lat: pt.Lat, Lon: pt.Lon})
		if d < best {
			best, p, ok = d, pt, true
		}
	}
	return p, ok
}

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
