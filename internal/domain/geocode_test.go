package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
	lastQuery     string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, query string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastQuery = query
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- EnrichReport ---

func TestEnrichReport_NilGeocoder(t *testing.T) {
	report := NoiseReport{ID: "r-1", Location: "Main St & 5th Ave"}

	result := EnrichReport(context.Background(), report, nil, discardLogger())

	assert.Empty(t, result.GeoSource)
	assert.Empty(t, result.FormattedAddress)
}

func TestEnrichReport_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              40.7128,
			Lon:              -74.006,
			FormattedAddress: "Main Street, New York, United States",
			PlaceName:        "Main Street",
			Confidence:       0.95,
		},
	}
	report := NoiseReport{ID: "r-2", Location: "Main St & 5th Ave"}

	result := EnrichReport(context.Background(), report, geo, discardLogger())

	assert.Equal(t, 40.7128, result.Lat)
	assert.Equal(t, -74.006, result.Lon)
	assert.Equal(t, "Main Street, New York, United States", result.FormattedAddress)
	assert.Equal(t, GeoSourceForward, result.GeoSource)
	assert.Equal(t, "Main St & 5th Ave", geo.lastQuery)
	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestEnrichReport_HasCoordinates_SkipsGeocoder(t *testing.T) {
	geo := &mockGeocoder{}
	report := NoiseReport{ID: "r-3", Location: "Current Location", Lat: 40.71, Lon: -74.0}

	result := EnrichReport(context.Background(), report, geo, discardLogger())

	assert.Equal(t, GeoSourceOriginal, result.GeoSource)
	assert.Equal(t, 0, geo.forwardCalls)
}

func TestEnrichReport_ForwardError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}
	report := NoiseReport{ID: "r-4", Location: "Main St"}

	result := EnrichReport(context.Background(), report, geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Empty(t, result.FormattedAddress)
	assert.False(t, result.HasCoordinates())
}

func TestEnrichReport_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{forwardResult: GeocodingResult{}}
	report := NoiseReport{ID: "r-5", Location: "Nowhere In Particular"}

	result := EnrichReport(context.Background(), report, geo, discardLogger())

	assert.Equal(t, GeoSourceOriginal, result.GeoSource)
}

// --- Locate ---

func locateSnapshot() Snapshot {
	return Snapshot{Heatmap: []HeatPoint{
		{Lat: 40.7128, Lon: -74.006, Level: 75},
		{Lat: 40.7188, Lon: -74.015, Level: 50},
	}}
}

func TestLocate_ClassifiesNearestReading(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	result, err := Locate(context.Background(), locateSnapshot(), Coordinates{Lat: 40.7187, Lon: -74.0149}, nil, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Level)
	assert.Equal(t, "Quiet", result.Category)
	assert.Equal(t, "No significant health impact", result.HealthImpact)
	assert.Empty(t, result.GeoSource)
	assert.Equal(t, fixed, result.ObservedAt)
}

func TestLocate_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Broadway, New York, United States",
			PlaceName:        "Broadway",
		},
	}

	result, err := Locate(context.Background(), locateSnapshot(), Coordinates{Lat: 40.7128, Lon: -74.006}, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "Very Loud", result.Category)
	assert.Equal(t, "Broadway, New York, United States", result.FormattedAddress)
	assert.Equal(t, "Broadway", result.PlaceName)
	assert.Equal(t, GeoSourceReverse, result.GeoSource)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestLocate_ReverseError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("rate limited")}

	result, err := Locate(context.Background(), locateSnapshot(), Coordinates{Lat: 40.7128, Lon: -74.006}, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Equal(t, 75.0, result.Level)
}

func TestLocate_InvalidCoordinates(t *testing.T) {
	geo := &mockGeocoder{}

	_, err := Locate(context.Background(), locateSnapshot(), Coordinates{Lat: 91, Lon: 0}, geo, discardLogger())

	require.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestLocate_NoReadings(t *testing.T) {
	_, err := Locate(context.Background(), Snapshot{}, Coordinates{Lat: 40.7, Lon: -74}, nil, discardLogger())

	require.ErrorIs(t, err, ErrNoReadings)
}
