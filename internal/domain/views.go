package domain

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownView is returned when a chart category name is not recognised.
var ErrUnknownView = errors.New("unknown view")

// SliceViews maps the share-of-whole chart categories to their snapshot field.
var SliceViews = map[string]func(Snapshot) []Slice{
	"areas":           func(s Snapshot) []Slice { return s.Areas },
	"distribution":    func(s Snapshot) []Slice { return s.Distribution },
	"complaint-share": func(s Snapshot) []Slice { return s.ComplaintShare },
	"pie":             func(s Snapshot) []Slice { return s.Pie },
}

// BucketViews maps the histogram chart categories to their snapshot field.
var BucketViews = map[string]func(Snapshot) []Bucket{
	"histogram": func(s Snapshot) []Bucket { return s.Histogram },
	"frequency": func(s Snapshot) []Bucket { return s.Frequency },
}

var otherViews = map[string]func(Snapshot) any{
	"hourly":      func(s Snapshot) any { return s.Hourly },
	"locations":   func(s Snapshot) any { return s.Locations },
	"complaints":  func(s Snapshot) any { return s.Complaints },
	"by-area":     func(s Snapshot) any { return s.ByArea },
	"by-time":     func(s Snapshot) any { return s.ByTime },
	"by-location": func(s Snapshot) any { return s.ByLocation },
	"comparison":  func(s Snapshot) any { return s.Comparison },
	"calendar":    func(s Snapshot) any { return s.Calendar },
	"heatmap":     func(s Snapshot) any { return s.Heatmap },
	"insights":    func(s Snapshot) any { return s.Insights },
	"stats":       func(s Snapshot) any { return s.Stats },
}

// View returns the slice of s backing one chart category.
func View(s Snapshot, category string) (any, error) {
	if f, ok := SliceViews[category]; ok {
		return f(s), nil
	}
	if f, ok := BucketViews[category]; ok {
		return f(s), nil
	}
	if f, ok := otherViews[category]; ok {
		return f(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, category)
}

// ViewNames lists every chart category in sorted order.
func ViewNames() []string {
	names := make([]string, 0, len(SliceViews)+len(BucketViews)+len(otherViews))
	for k := range SliceViews {
		names = append(names, k)
	}
	for k := range BucketViews {
		names = append(names, k)
	}
	for k := range otherViews {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
