package domain

import (
	"cmp"
	"math"
	"slices"
)

// QuietZone is a curated low-noise public space.
type QuietZone struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Lat         float64  `json:"lat" yaml:"lat"`
	Lon         float64  `json:"lon" yaml:"lon"`
	Level       float64  `json:"noise_level" yaml:"noise_level"`
	CrowdLevel  string   `json:"crowd_level" yaml:"crowd_level"`
	BestTimes   string   `json:"best_times" yaml:"best_times"`
	Amenities   []string `json:"amenities" yaml:"amenities"`

	// DistanceKm is populated by FilterQuietZones when an origin is given.
	DistanceKm *float64 `json:"distance_km,omitempty" yaml:"-"`
}

// DefaultQuietZones returns a fresh copy of the built-in catalog.
func DefaultQuietZones() []QuietZone {
	return []QuietZone{
		{
			ID: 1, Name: "Central Park Reading Area",
			Description: "A secluded reading area surrounded by trees that block city noise",
			Lat:         40.7158, Lon: -74.012, Level: 42, CrowdLevel: "Low",
			BestTimes: "Weekday mornings, Sunday afternoons",
			Amenities: []string{"Benches", "Shade", "Water fountain"},
		},
		{
			ID: 2, Name: "Riverside Library Garden",
			Description: "Peaceful garden behind the main library with sound-dampening walls",
			Lat:         40.7188, Lon: -74.015, Level: 38, CrowdLevel: "Medium",
			BestTimes: "Weekday afternoons",
			Amenities: []string{"Tables", "Wi-Fi", "Coffee shop nearby"},
		},
		{
			ID: 3, Name: "Museum Courtyard",
			Description: "Inner courtyard of the art museum with excellent acoustics",
			Lat:         40.7130, Lon: -74.0135, Level: 45, CrowdLevel: "Low",
			BestTimes: "Tuesday-Thursday all day",
			Amenities: []string{"Seating", "Art installations", "Café"},
		},
		{
			ID: 4, Name: "Botanical Garden Meditation Space",
			Description: "Dedicated quiet zone within the botanical gardens",
			Lat:         40.7228, Lon: -74.018, Level: 35, CrowdLevel: "Very Low",
			BestTimes: "Early mornings, late afternoons",
			Amenities: []string{"Meditation cushions", "Water features", "Guided sessions"},
		},
		{
			ID: 5, Name: "University Campus Grove",
			Description: "Tree-lined area on campus designed for studying",
			Lat:         40.7295, Lon: -73.9965, Level: 48, CrowdLevel: "Medium",
			BestTimes: "Weekends, evening hours",
			Amenities: []string{"Study tables", "Power outlets", "Wi-Fi"},
		},
	}
}

// FilterQuietZones keeps zones at or below maxLevel (no limit when maxLevel
// is zero). With an origin, results carry DistanceKm and are ordered nearest
// first; without one they are ordered quietest first. zones is not modified.
func FilterQuietZones(zones []QuietZone, maxLevel float64, origin *Coordinates) []QuietZone {
	out := make([]QuietZone, 0, len(zones))
	for _, z := range zones {
		if maxLevel > 0 && z.Level > maxLevel {
			continue
		}
		z.Amenities = slices.Clone(z.Amenities)
		if origin != nil {
			d := math.Round(DistanceKm(*origin, Coordinates{Lat: z.Lat, Lon: z.Lon})*100) / 100
			z.DistanceKm = &d
		}
		out = append(out, z)
	}

	if origin != nil {
		slices.SortStableFunc(out, func(a, b QuietZone) int { return cmp.Compare(*a.DistanceKm, *b.DistanceKm) })
	} else {
		slices.SortStableFunc(out, func(a, b QuietZone) int { return cmp.Compare(a.Level, b.Level) })
	}
	return out
}
