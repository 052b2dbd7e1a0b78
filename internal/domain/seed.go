package domain

import (
	"fmt"
	"math"
	"time"
)

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewSeedSnapshot builds the initial snapshot. Only the calendar depends on e;
// every other field starts from fixed reference values.
func NewSeedSnapshot(e Entropy, now time.Time) Snapshot {
	return Snapshot{
		Timestamp: now,
		Areas: []Slice{
			{Name: "Downtown", Value: 75, Color: "#ef4444"},
			{Name: "Residential", Value: 58, Color: "#f59e0b"},
			{Name: "Parks", Value: 42, Color: "#10b981"},
			{Name: "Commercial", Value: 68, Color: "#f59e0b"},
			{Name: "Industrial", Value: 82, Color: "#ef4444"},
			{Name: "Schools", Value: 52, Color: "#3b82f6"},
			{Name: "Hospitals", Value: 45, Color: "#10b981"},
			{Name: "Transit Hubs", Value: 78, Color: "#ef4444"},
		},
		Hourly: seedHourly(),
		Locations: []LocationPeriods{
			{Location: "Downtown", Morning: 72, Afternoon: 78, Evening: 75, Night: 68},
			{Location: "Residential", Morning: 55, Afternoon: 58, Evening: 60, Night: 45},
			{Location: "Parks", Morning: 45, Afternoon: 52, Evening: 48, Night: 38},
			{Location: "Commercial", Morning: 65, Afternoon: 70, Evening: 68, Night: 52},
			{Location: "Industrial", Morning: 75, Afternoon: 82, Evening: 78, Night: 65},
			{Location: "Schools", Morning: 58, Afternoon: 62, Evening: 45, Night: 35},
			{Location: "Hospitals", Morning: 48, Afternoon: 50, Evening: 45, Night: 42},
		},
		Complaints: []ComplaintSeries{
			{Type: "Construction", Data: []float64{12, 15, 14, 16, 15, 8, 5}},
			{Type: "Traffic", Data: []float64{8, 9, 10, 9, 11, 7, 6}},
			{Type: "Nightlife", Data: []float64{5, 6, 7, 9, 14, 18, 15}},
			{Type: "Neighbors", Data: []float64{7, 6, 8, 7, 9, 12, 10}},
			{Type: "Industrial", Data: []float64{6, 7, 6, 5, 6, 3, 2}},
		},
		Stats: Stats{
			AverageNoise:   67.3,
			QuietZones:     28,
			Complaints:     143,
			NoiseReduction: -4.2,
			Trend:          TrendImproving,
		},
		Pie: []Slice{
			{Name: "Very Quiet (<45 dB)", Value: 15, Color: "#10b981"},
			{Name: "Quiet (45-55 dB)", Value: 25, Color: "#3b82f6"},
			{Name: "Moderate (55-65 dB)", Value: 30, Color: "#f59e0b"},
			{Name: "Loud (65-75 dB)", Value: 20, Color: "#ef4444"},
			{Name: "Very Loud (>75 dB)", Value: 10, Color: "#dc2626"},
		},
		Histogram: []Bucket{
			{Range: "30-40 dB", Count: 5, Color: "#10b981"},
			{Range: "40-50 dB", Count: 15, Color: "#10b981"},
			{Range: "50-60 dB", Count: 25, Color: "#3b82f6"},
			{Range: "60-70 dB", Count: 30, Color: "#f59e0b"},
			{Range: "70-80 dB", Count: 18, Color: "#ef4444"},
			{Range: "80-90 dB", Count: 7, Color: "#dc2626"},
		},
		Insights: seedInsights(),
		Distribution: []Slice{
			{Name: "Very Quiet (<45dB)", Value: 15, Color: "#22c55e"},
			{Name: "Quiet (45-55dB)", Value: 25, Color: "#84cc16"},
			{Name: "Moderate (55-65dB)", Value: 30, Color: "#facc15"},
			{Name: "Loud (65-75dB)", Value: 20, Color: "#f97316"},
			{Name: "Very Loud (>75dB)", Value: 10, Color: "#ef4444"},
		},
		Frequency: []Bucket{
			{Range: "30-35", Count: 5, Color: "#22c55e"},
			{Range: "35-40", Count: 12, Color: "#22c55e"},
			{Range: "40-45", Count: 18, Color: "#22c55e"},
			{Range: "45-50", Count: 25, Color: "#84cc16"},
			{Range: "50-55", Count: 32, Color: "#84cc16"},
			{Range: "55-60", Count: 38, Color: "#facc15"},
			{Range: "60-65", Count: 30, Color: "#facc15"},
			{Range: "65-70", Count: 24, Color: "#f97316"},
			{Range: "70-75", Count: 18, Color: "#f97316"},
			{Range: "75-80", Count: 12, Color: "#ef4444"},
			{Range: "80-85", Count: 8, Color: "#ef4444"},
			{Range: "85-90", Count: 4, Color: "#ef4444"},
		},
		ByArea: []LimitReading{
			{Name: "Downtown", Value: 78, Limit: 65},
			{Name: "Residential", Value: 58, Limit: 55},
			{Name: "Commercial", Value: 72, Limit: 65},
			{Name: "Industrial", Value: 82, Limit: 75},
			{Name: "Parks", Value: 52, Limit: 55},
			{Name: "Schools", Value: 62, Limit: 55},
			{Name: "Hospitals", Value: 48, Limit: 50},
			{Name: "Entertainment", Value: 76, Limit: 70},
		},
		ByTime: []ZoneMix{
			{Time: "12 AM", Residential: 45, Commercial: 52, Industrial: 58},
			{Time: "2 AM", Residential: 42, Commercial: 48, Industrial: 55},
			{Time: "4 AM", Residential: 40, Commercial: 45, Industrial: 52},
			{Time: "6 AM", Residential: 48, Commercial: 55, Industrial: 62},
			{Time: "8 AM", Residential: 58, Commercial: 68, Industrial: 75},
			{Time: "10 AM", Residential: 55, Commercial: 72, Industrial: 78},
			{Time: "12 PM", Residential: 56, Commercial: 75, Industrial: 80},
			{Time: "2 PM", Residential: 54, Commercial: 74, Industrial: 82},
			{Time: "4 PM", Residential: 58, Commercial: 76, Industrial: 81},
			{Time: "6 PM", Residential: 62, Commercial: 72, Industrial: 76},
			{Time: "8 PM", Residential: 58, Commercial: 68, Industrial: 72},
			{Time: "10 PM", Residential: 52, Commercial: 60, Industrial: 65},
		},
		ByLocation: []LocationDelta{
			{Name: "Downtown", Current: 78, Previous: 75, Limit: 65},
			{Name: "Midtown", Current: 72, Previous: 70, Limit: 65},
			{Name: "Uptown", Current: 68, Previous: 65, Limit: 65},
			{Name: "Westside", Current: 65, Previous: 68, Limit: 65},
			{Name: "Eastside", Current: 62, Previous: 64, Limit: 65},
			{Name: "Southside", Current: 70, Previous: 72, Limit: 65},
			{Name: "Northside", Current: 64, Previous: 62, Limit: 65},
			{Name: "Harbor", Current: 68, Previous: 70, Limit: 65},
		},
		ComplaintShare: []Slice{
			{Name: "Construction", Value: 35, Color: "#f97316"},
			{Name: "Traffic", Value: 25, Color: "#3b82f6"},
			{Name: "Nightlife", Value: 20, Color: "#8b5cf6"},
			{Name: "Neighbors", Value: 15, Color: "#ef4444"},
			{Name: "Industrial", Value: 5, Color: "#84cc16"},
		},
		Comparison: []CityComparison{
			{Name: "Your City", Current: 68, Average: 65, Best: 58},
			{Name: "New York", Current: 75, Average: 72, Best: 65},
			{Name: "Los Angeles", Current: 72, Average: 70, Best: 62},
			{Name: "Chicago", Current: 70, Average: 68, Best: 60},
			{Name: "Houston", Current: 68, Average: 66, Best: 59},
			{Name: "Phoenix", Current: 65, Average: 63, Best: 57},
		},
		Calendar: seedCalendar(e),
		Heatmap: []HeatPoint{
			{Lat: 40.7128, Lon: -74.006, Level: 75},
			{Lat: 40.7138, Lon: -74.008, Level: 82},
			{Lat: 40.7118, Lon: -74.004, Level: 68},
			{Lat: 40.7148, Lon: -74.009, Level: 55},
			{Lat: 40.7158, Lon: -74.012, Level: 45},
			{Lat: 40.7168, Lon: -74.002, Level: 62},
			{Lat: 40.7178, Lon: -74.007, Level: 78},
			{Lat: 40.7188, Lon: -74.015, Level: 50},
			{Lat: 40.7198, Lon: -74.003, Level: 65},
			{Lat: 40.7208, Lon: -74.011, Level: 72},
			{Lat: 40.7135, Lon: -74.01, Level: 79},
			{Lat: 40.7145, Lon: -74.005, Level: 65},
			{Lat: 40.7155, Lon: -74.015, Level: 48},
			{Lat: 40.7165, Lon: -74.007, Level: 58},
			{Lat: 40.7175, Lon: -74.003, Level: 72},
			{Lat: 40.7185, Lon: -74.012, Level: 63},
			{Lat: 40.7195, Lon: -74.008, Level: 69},
			{Lat: 40.7205, Lon: -74.004, Level: 77},
		},
	}
}

func seedHourly() []Reading {
	values := [24]float64{
		45, 42, 40, 38, 37, 39, 48, 58, 68, 72, 70, 69,
		71, 70, 68, 67, 69, 75, 73, 70, 65, 60, 55, 50,
	}
	out := make([]Reading, len(values))
	for h, v := range values {
		out[h] = Reading{Label: HourLabel(h), Value: v}
	}
	return out
}

// HourLabel formats an hour of the day as "12 AM" … "11 PM".
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// calendarBase is the expected level for a day/hour before jitter:
// louder in the daytime, quieter overnight, weekday rush hours and
// weekend nightlife on top.
func calendarBase(day, hour int) float64 {
	base := 50.0
	switch {
	case hour >= 8 && hour <= 18:
		base += 15
	case hour >= 19 && hour <= 22:
		base += 10
	case hour >= 23 || hour <= 5:
		base -= 10
	}

	weekend := day == 0 || day == 6
	if weekend {
		if hour >= 10 && hour <= 14 {
			base += 5
		}
		if hour >= 20 && hour <= 23 {
			base += 10
		}
	} else if (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 18) {
		base += 8
	}
	return base
}

func seedCalendar(e Entropy) []CalendarCell {
	cells := make([]CalendarCell, 0, 7*24)
	for day := range 7 {
		for hour := range 24 {
			z := CalendarRange.Clamp(calendarBase(day, hour) + e.Delta(CalendarSpread))
			cells = append(cells, CalendarCell{
				X:         day,
				Y:         hour,
				Z:         z,
				Day:       weekdays[day],
				HourLabel: fmt.Sprintf("%d:00", hour),
				Value:     int(math.Round(z)),
			})
		}
	}
	return cells
}
