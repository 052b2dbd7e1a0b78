package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidReport is returned when a submitted noise report fails validation.
var ErrInvalidReport = errors.New("invalid noise report")

// Noise report bounds. DefaultReportLevel is used when the level is omitted.
const (
	MinReportLevel     = 40.0
	MaxReportLevel     = 100.0
	DefaultReportLevel = 70.0
)

var reportTypes = map[string]bool{
	"construction": true,
	"traffic":      true,
	"music":        true,
	"industrial":   true,
	"alarm":        true,
	"other":        true,
}

// NoiseReport is a citizen-submitted noise complaint.
type NoiseReport struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Level       float64   `json:"level"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Lat         float64   `json:"lat,omitempty"`
	Lon         float64   `json:"lon,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`

	// Geocoding enrichment (populated when a geocoder is configured).
	FormattedAddress string `json:"formatted_address,omitempty"`
	GeoSource        string `json:"geo_source,omitempty"` // "forward", "original", or "failed"
}

// ReportStore persists noise reports.
type ReportStore interface {
	Save(ctx context.Context, r NoiseReport) error
	// List returns up to limit reports, newest first.
	List(ctx context.Context, limit int) ([]NoiseReport, error)
	Close() error
}

// HasCoordinates reports whether the report carries a position.
func (r NoiseReport) HasCoordinates() bool {
	return r.Lat != 0 || r.Lon != 0
}

// Validate checks the required fields and bounds.
func (r NoiseReport) Validate() error {
	var problems []string
	if !reportTypes[r.Type] {
		problems = append(problems, fmt.Sprintf("type %q not recognised", r.Type))
	}
	if r.Description == "" {
		problems = append(problems, "description is required")
	}
	if r.Location == "" {
		problems = append(problems, "location is required")
	}
	if math.IsNaN(r.Level) || r.Level < MinReportLevel || r.Level > MaxReportLevel {
		problems = append(problems, fmt.Sprintf("level %v outside %v-%v dB", r.Level, MinReportLevel, MaxReportLevel))
	}
	if r.HasCoordinates() {
		if err := (Coordinates{Lat: r.Lat, Lon: r.Lon}).Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(problems, "; "))
	}
	return nil
}

// ReportSubmission is a noise report as sent by a client. Level is nil when
// the client omitted it.
type ReportSubmission struct {
	Type        string   `json:"type"`
	Level       *float64 `json:"level"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Lat         float64  `json:"lat,omitempty"`
	Lon         float64  `json:"lon,omitempty"`
}

// NewReport normalizes and validates a submission, then stamps it with an ID
// and submission time. An omitted level defaults to DefaultReportLevel; an
// explicit level, zero included, must lie within the report bounds.
func NewReport(in ReportSubmission) (NoiseReport, error) {
	r := NoiseReport{
		Type:        strings.ToLower(strings.TrimSpace(in.Type)),
		Level:       DefaultReportLevel,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Lat:         in.Lat,
		Lon:         in.Lon,
	}
	if in.Level != nil {
		r.Level = *in.Level
	}
	if err := r.Validate(); err != nil {
		return NoiseReport{}, err
	}

	r.SubmittedAt = clock.Now().UTC()
	r.ID = reportID(r)
	return r, nil
}

// reportID hashes the report content and submission time. Identical
// resubmissions at the same instant share an ID; any differing field does not.
func reportID(r NoiseReport) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		r.Type, r.Location, r.Description,
		strconv.FormatFloat(r.Level, 'g', -1, 64),
		strconv.FormatFloat(r.Lat, 'g', -1, 64),
		strconv.FormatFloat(r.Lon, 'g', -1, 64),
		r.SubmittedAt.Format(time.RFC3339Nano),
	)
	hash := sha256.Sum256([]byte(input))
	return r.Type + "-" + hex.EncodeToString(hash[:8])
}
