package domain

import (
	"fmt"
	"math"
	"time"
)

// Perturb derives the next snapshot from prev. Every numeric field receives an
// independent uniform delta and is clamped to its range. The result carries
// timestamp max(now, prev.Timestamp) and is validated before it is returned.
// prev is never modified.
func Perturb(prev Snapshot, e Entropy, now time.Time) (Snapshot, error) {
	next := prev.Clone()

	for i := range next.Areas {
		next.Areas[i].Value = jitter(e, next.Areas[i].Value, AreaSpread, AreaRange)
	}
	for i := range next.Hourly {
		next.Hourly[i].Value = jitter(e, next.Hourly[i].Value, HourlySpread, HourlyRange)
	}
	for i := range next.Locations {
		l := &next.Locations[i]
		l.Morning = jitter(e, l.Morning, LocationSpread, LocationRange)
		l.Afternoon = jitter(e, l.Afternoon, LocationSpread, LocationRange)
		l.Evening = jitter(e, l.Evening, LocationSpread, LocationRange)
		l.Night = jitter(e, l.Night, LocationSpread, LocationRange)
	}
	for i := range next.Complaints {
		data := next.Complaints[i].Data
		for j := range data {
			data[j] = jitter(e, data[j], ComplaintSpread, ComplaintRange)
		}
	}

	next.Stats = perturbStats(prev.Stats, e)

	jitterSlices(e, next.Pie)
	jitterBuckets(e, next.Histogram)
	jitterSlices(e, next.Distribution)
	jitterBuckets(e, next.Frequency)

	for i := range next.ByArea {
		next.ByArea[i].Value = jitter(e, next.ByArea[i].Value, AreaSpread, AreaRange)
	}
	for i := range next.ByTime {
		z := &next.ByTime[i]
		z.Residential = jitter(e, z.Residential, ZoneSpread, ZoneRange)
		z.Commercial = jitter(e, z.Commercial, ZoneSpread, ZoneRange)
		z.Industrial = jitter(e, z.Industrial, ZoneSpread, ZoneRange)
	}
	for i := range next.ByLocation {
		next.ByLocation[i].Current = jitter(e, next.ByLocation[i].Current, ZoneSpread, ZoneRange)
	}
	jitterSlices(e, next.ComplaintShare)
	for i := range next.Comparison {
		next.Comparison[i].Current = jitter(e, next.Comparison[i].Current, ZoneSpread, ZoneRange)
	}
	for i := range next.Calendar {
		c := &next.Calendar[i]
		c.Z = jitter(e, c.Z, CalendarSpread, CalendarRange)
		c.Value = int(math.Round(jitter(e, float64(c.Value), CalendarSpread, CalendarRange)))
	}
	for i := range next.Heatmap {
		next.Heatmap[i].Level = jitter(e, next.Heatmap[i].Level, HeatmapSpread, HeatmapRange)
	}

	next.Insights = rotateInsights(next.Insights, e, now)

	next.Timestamp = now
	if now.Before(prev.Timestamp) {
		next.Timestamp = prev.Timestamp
	}

	if err := next.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("perturb snapshot: %w", err)
	}
	return next, nil
}

func jitter(e Entropy, v, spread float64, r Range) float64 {
	return r.Clamp(v + e.Delta(spread))
}

func jitterSlices(e Entropy, s []Slice) {
	for i := range s {
		s[i].Value = jitter(e, s[i].Value, ShareSpread, ShareRange)
	}
}

func jitterBuckets(e Entropy, b []Bucket) {
	for i := range b {
		b[i].Count = jitter(e, b[i].Count, BucketSpread, BucketRange)
	}
}

func perturbStats(s Stats, e Entropy) Stats {
	s.AverageNoise = AverageNoiseRange.Clamp(round1(s.AverageNoise + e.Delta(AverageNoiseSpread)))

	if e.Chance(0.5) {
		if e.Chance(0.5) {
			s.QuietZones++
		} else {
			s.QuietZones--
		}
	}
	s.QuietZones = int(QuietZonesRange.Clamp(float64(s.QuietZones)))

	s.Complaints += e.IntN(10) - 5
	s.Complaints = int(ComplaintsRange.Clamp(float64(s.Complaints)))

	s.NoiseReduction = ReductionRange.Clamp(round1(s.NoiseReduction + e.Delta(ReductionSpread)))

	if e.Chance(0.3) {
		if e.Chance(0.5) {
			s.Trend = TrendImproving
		} else {
			s.Trend = TrendWorsening
		}
	}
	return s
}
