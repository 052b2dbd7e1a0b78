package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoReadings is returned by Locate when the snapshot has no map samples.
var ErrNoReadings = errors.New("no noise readings available")

// Geo sources recorded on enriched results.
const (
	GeoSourceForward  = "forward"
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// EnrichReport forward-geocodes a report's location when it has no coordinates.
// If geocoder is nil or geocoding fails, the report is returned with
// GeoSource set accordingly (graceful degradation).
func EnrichReport(ctx context.Context, report NoiseReport, geocoder Geocoder, logger *slog.Logger) NoiseReport {
	if geocoder == nil {
		return report
	}
	if report.HasCoordinates() || report.Location == "" {
		report.GeoSource = GeoSourceOriginal
		return report
	}

	result, err := geocoder.ForwardGeocode(ctx, report.Location)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"report_id", report.ID,
			"location", report.Location,
			"error", err,
		)
		report.GeoSource = GeoSourceFailed
		return report
	}
	if result.Lat != 0 || result.Lon != 0 {
		report.Lat = result.Lat
		report.Lon = result.Lon
		report.FormattedAddress = result.FormattedAddress
		report.GeoSource = GeoSourceForward
		return report
	}
	report.GeoSource = GeoSourceOriginal
	return report
}

// LocationReading is the noise level at a point, classified for display.
type LocationReading struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Level float64 `json:"noise_level"`
	Classification
	FormattedAddress string    `json:"formatted_address,omitempty"`
	PlaceName        string    `json:"place_name,omitempty"`
	GeoSource        string    `json:"geo_source,omitempty"`
	ObservedAt       time.Time `json:"observed_at"`
}

// Locate classifies the reading nearest to c in snap and, when a geocoder is
// configured, attaches the reverse-geocoded address. Geocoder failures only
// mark the result; they never fail the lookup.
func Locate(ctx context.Context, snap Snapshot, c Coordinates, geocoder Geocoder, logger *slog.Logger) (LocationReading, error) {
	if err := c.Validate(); err != nil {
		return LocationReading{}, err
	}
	nearest, ok := NearestReading(snap.Heatmap, c)
	if !ok {
		return LocationReading{}, fmt.Errorf("locate %.4f,%.4f: %w", c.Lat, c.Lon, ErrNoReadings)
	}

	reading := LocationReading{
		Lat:            c.Lat,
		Lon:            c.Lon,
		Level:          round1(nearest.Level),
		Classification: Classify(nearest.Level),
		ObservedAt:     clock.Now().UTC(),
	}
	if geocoder == nil {
		return reading, nil
	}

	result, err := geocoder.ReverseGeocode(ctx, c.Lat, c.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", c.Lat,
			"lon", c.Lon,
			"error", err,
		)
		reading.GeoSource = GeoSourceFailed
		return reading, nil
	}
	if result.FormattedAddress != "" {
		reading.FormattedAddress = result.FormattedAddress
		reading.PlaceName = result.PlaceName
		reading.GeoSource = GeoSourceReverse
		return reading, nil
	}
	reading.GeoSource = GeoSourceOriginal
	return reading, nil
}
