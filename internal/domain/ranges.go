package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned by Snapshot.Validate when a field is NaN,
// infinite, or outside its clamp range.
var ErrOutOfRange = errors.New("value out of range")

// Range is an inclusive clamp interval.
type Range struct {
	Min float64
	Max float64
}

// Clamp limits v to [r.Min, r.Max].
func (r Range) Clamp(v float64) float64 {
	return max(r.Min, min(r.Max, v))
}

// Contains reports whether v is a finite value inside r.
func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= r.Min && v <= r.Max
}

// Spreads and clamp ranges per field group.
const (
	AreaSpread         = 5.0
	HourlySpread       = 5.0
	LocationSpread     = 4.0
	ComplaintSpread    = 2.0
	ShareSpread        = 5.0
	BucketSpread       = 5.0
	ZoneSpread         = 5.0
	CalendarSpread     = 5.0
	HeatmapSpread      = 3.0
	AverageNoiseSpread = 2.0
	ReductionSpread    = 0.4
)

var (
	AreaRange         = Range{Min: 35, Max: 95}
	HourlyRange       = Range{Min: 35, Max: 85}
	LocationRange     = Range{Min: 35, Max: 85}
	ComplaintRange    = Range{Min: 0, Max: 20}
	ShareRange        = Range{Min: 5, Max: 40}
	BucketRange       = Range{Min: 1, Max: 40}
	ZoneRange         = Range{Min: 35, Max: 85}
	CalendarRange     = Range{Min: 30, Max: 85}
	HeatmapRange      = Range{Min: 35, Max: 95}
	AverageNoiseRange = Range{Min: 35, Max: 95}
	ReductionRange    = Range{Min: -20, Max: 20}
	QuietZonesRange   = Range{Min: 0, Max: 100}
	ComplaintsRange   = Range{Min: 0, Max: 1000}
)

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type validator struct {
	err error
}

func (v *validator) check(field string, idx int, val float64, r Range) {
	if v.err != nil || r.Contains(val) {
		return
	}
	if idx >= 0 {
		field = fmt.Sprintf("%s[%d]", field, idx)
	}
	v.err = fmt.Errorf("%w: %s = %v, want %v..%v", ErrOutOfRange, field, val, r.Min, r.Max)
}

// Validate checks that every numeric field is finite and within its clamp range.
func (s Snapshot) Validate() error {
	var v validator
	for i, a := range s.Areas {
		v.check("areas", i, a.Value, AreaRange)
	}
	for i, h := range s.Hourly {
		v.check("hourlyData", i, h.Value, HourlyRange)
	}
	for i, l := range s.Locations {
		v.check("locationData.morning", i, l.Morning, LocationRange)
		v.check("locationData.afternoon", i, l.Afternoon, LocationRange)
		v.check("locationData.evening", i, l.Evening, LocationRange)
		v.check("locationData.night", i, l.Night, LocationRange)
	}
	for _, c := range s.Complaints {
		for i, d := range c.Data {
			v.check("complaintData."+c.Type, i, d, ComplaintRange)
		}
	}
	for i, p := range s.Pie {
		v.check("pieData", i, p.Value, ShareRange)
	}
	for i, p := range s.Distribution {
		v.check("noiseDistribution", i, p.Value, ShareRange)
	}
	for i, p := range s.ComplaintShare {
		v.check("noiseComplaints", i, p.Value, ShareRange)
	}
	for i, b := range s.Histogram {
		v.check("histogramData", i, b.Count, BucketRange)
	}
	for i, b := range s.Frequency {
		v.check("noiseFrequency", i, b.Count, BucketRange)
	}
	for i, a := range s.ByArea {
		v.check("noiseByArea", i, a.Value, AreaRange)
	}
	for i, z := range s.ByTime {
		v.check("noiseByTime.residential", i, z.Residential, ZoneRange)
		v.check("noiseByTime.commercial", i, z.Commercial, ZoneRange)
		v.check("noiseByTime.industrial", i, z.Industrial, ZoneRange)
	}
	for i, l := range s.ByLocation {
		v.check("noiseByLocation", i, l.Current, ZoneRange)
	}
	for i, c := range s.Comparison {
		v.check("noiseComparison", i, c.Current, ZoneRange)
	}
	for i, c := range s.Calendar {
		v.check("noiseCalendar.z", i, c.Z, CalendarRange)
		v.check("noiseCalendar.value", i, float64(c.Value), CalendarRange)
	}
	for i, p := range s.Heatmap {
		v.check("heatmap", i, p.Level, HeatmapRange)
	}
	v.check("stats.averageNoise", -1, s.Stats.AverageNoise, AverageNoiseRange)
	v.check("stats.noiseReduction", -1, s.Stats.NoiseReduction, ReductionRange)
	v.check("stats.quietZones", -1, float64(s.Stats.QuietZones), QuietZonesRange)
	v.check("stats.complaints", -1, float64(s.Stats.Complaints), ComplaintsRange)
	return v.err
}
