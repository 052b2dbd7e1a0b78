package domain

import (
	"slices"
	"time"
)

// Trend describes the direction of the city-wide noise level.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// Slice is a named share of a whole. Used by areas, pie, distribution and
// complaint-share charts.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Bucket is a histogram bar covering a decibel range.
type Bucket struct {
	Range string  `json:"range"`
	Count float64 `json:"count"`
	Color string  `json:"color,omitempty"`
}

// Reading is a single labelled level, e.g. one hour of the daily curve.
type Reading struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// LocationPeriods holds a location's level across the four day periods.
type LocationPeriods struct {
	Location  string  `json:"location"`
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
	Night     float64 `json:"night"`
}

// ComplaintSeries is a seven-day count series for one complaint type.
type ComplaintSeries struct {
	Type string    `json:"type"`
	Data []float64 `json:"data"`
}

// LimitReading is a level shown against its regulatory limit.
type LimitReading struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Limit float64 `json:"limit"`
}

// ZoneMix is the level per zoning class at one time of day.
type ZoneMix struct {
	Time        string  `json:"time"`
	Residential float64 `json:"residential"`
	Commercial  float64 `json:"commercial"`
	Industrial  float64 `json:"industrial"`
}

// LocationDelta compares a neighbourhood's current level with the previous period.
type LocationDelta struct {
	Name     string  `json:"name"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Limit    float64 `json:"limit"`
}

// CityComparison benchmarks one city against the average and best observed.
type CityComparison struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
}

// CalendarCell is one day/hour cell of the weekly heatmap.
// X is the day index (0 = Sunday) and Y the hour.
type CalendarCell struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Z         float64 `json:"z"`
	Day       string  `json:"day"`
	HourLabel string  `json:"hour"`
	Value     int     `json:"value"`
}

// HeatPoint is a map sample point.
type HeatPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Level float64 `json:"level"`
}

// Stats are the headline numbers. They are perturbed independently of Areas.
type Stats struct {
	AverageNoise   float64 `json:"averageNoise"`
	QuietZones     int     `json:"quietZones"`
	Complaints     int     `json:"complaints"`
	NoiseReduction float64 `json:"noiseReduction"`
	Trend          Trend   `json:"trend"`
}

// Snapshot is one frame of synthetic city noise telemetry.
type Snapshot struct {
	Timestamp      time.Time         `json:"timestamp"`
	Areas          []Slice           `json:"areas"`
	Hourly         []Reading         `json:"hourlyData"`
	Locations      []LocationPeriods `json:"locationData"`
	Complaints     []ComplaintSeries `json:"complaintData"`
	Stats          Stats             `json:"stats"`
	Pie            []Slice           `json:"pieData"`
	Histogram      []Bucket          `json:"histogramData"`
	Insights       []Insight         `json:"insights"`
	Distribution   []Slice           `json:"noiseDistribution"`
	Frequency      []Bucket          `json:"noiseFrequency"`
	ByArea         []LimitReading    `json:"noiseByArea"`
	ByTime         []ZoneMix         `json:"noiseByTime"`
	ByLocation     []LocationDelta   `json:"noiseByLocation"`
	ComplaintShare []Slice           `json:"noiseComplaints"`
	Comparison     []CityComparison  `json:"noiseComparison"`
	Calendar       []CalendarCell    `json:"noiseCalendar"`
	Heatmap        []HeatPoint       `json:"heatmap"`
}

// Clone returns a deep copy that shares no backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Areas = slices.Clone(s.Areas)
	out.Hourly = slices.Clone(s.Hourly)
	out.Locations = slices.Clone(s.Locations)
	out.Pie = slices.Clone(s.Pie)
	out.Histogram = slices.Clone(s.Histogram)
	out.Insights = slices.Clone(s.Insights)
	out.Distribution = slices.Clone(s.Distribution)
	out.Frequency = slices.Clone(s.Frequency)
	out.ByArea = slices.Clone(s.ByArea)
	out.ByTime = slices.Clone(s.ByTime)
	out.ByLocation = slices.Clone(s.ByLocation)
	out.ComplaintShare = slices.Clone(s.ComplaintShare)
	out.Comparison = slices.Clone(s.Comparison)
	out.Calendar = slices.Clone(s.Calendar)
	out.Heatmap = slices.Clone(s.Heatmap)

	if s.Complaints != nil {
		out.Complaints = make([]ComplaintSeries, len(s.Complaints))
		for i, c := range s.Complaints {
			out.Complaints[i] = ComplaintSeries{Type: c.Type, Data: slices.Clone(c.Data)}
		}
	}
	return out
}

// IsZero reports whether no snapshot has been produced yet.
func (s Snapshot) IsZero() bool {
	return s.Timestamp.IsZero() && len(s.Areas) == 0
}
