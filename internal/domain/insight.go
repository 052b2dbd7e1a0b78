package domain

import (
	"slices"
	"time"
)

// InsightKind classifies an insight card.
type InsightKind string

const (
	InsightAlert     InsightKind = "alert"
	InsightTrend     InsightKind = "trend"
	InsightPattern   InsightKind = "pattern"
	InsightDiscovery InsightKind = "discovery"
)

var insightKinds = [...]InsightKind{InsightAlert, InsightTrend, InsightPattern, InsightDiscovery}

// Insight is a prioritised text card. Lower Priority sorts first.
type Insight struct {
	ID          int64       `json:"id"`
	Kind        InsightKind `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Badge       string      `json:"badge"`
	Action      string      `json:"action"`
	Priority    int         `json:"priority"`
}

// Badge returns the display label for the kind.
func (k InsightKind) Badge() string {
	switch k {
	case InsightAlert:
		return "Alert"
	case InsightTrend:
		return "Trend"
	case InsightPattern:
		return "Pattern"
	case InsightDiscovery:
		return "Discovery"
	default:
		return ""
	}
}

// Action returns the call to action shown on cards of this kind.
func (k InsightKind) Action() string {
	switch k {
	case InsightAlert:
		return "View on map"
	case InsightTrend:
		return "See trend"
	case InsightPattern:
		return "View details"
	default:
		return "Add to quiet zones"
	}
}

var insightTitles = []string{
	"Sudden increase in noise levels reported",
	"Noise pollution decreasing in residential areas",
	"New noise complaints filed near construction site",
	"Unexpected quiet period observed in commercial zone",
	"Traffic noise significantly impacting local park",
}

var insightDescriptions = []string{
	"A sharp rise in noise levels has been detected, potentially affecting local residents.",
	"Positive trend: Noise pollution is decreasing in residential areas, improving quality of life.",
	"New noise complaints have been filed near the construction site, prompting further investigation.",
	"An unusual quiet period has been observed in the commercial zone, deviating from typical patterns.",
	"Traffic noise is significantly impacting the local park, affecting recreational activities.",
}

func seedInsights() []Insight {
	out := []Insight{
		{
			ID: 1, Kind: InsightAlert, Priority: 1,
			Title:       "Construction noise spike",
			Description: "Construction on Main Street is causing 15dB higher noise levels during 8AM-5PM",
		},
		{
			ID: 2, Kind: InsightTrend, Priority: 3,
			Title:       "Morning commute getting quieter",
			Description: "7-9AM noise levels have decreased by 8% over the past month",
		},
		{
			ID: 3, Kind: InsightPattern, Priority: 2,
			Title:       "Weekend noise pattern change",
			Description: "Saturday noise levels are shifting from evenings to afternoons",
		},
		{
			ID: 4, Kind: InsightDiscovery, Priority: 4,
			Title:       "New quiet zone identified",
			Description: "Area near Riverside Park consistently shows <45dB during weekdays",
		},
	}
	for i := range out {
		out[i].Badge = out[i].Kind.Badge()
		out[i].Action = out[i].Kind.Action()
	}
	return out
}

// rotateInsights occasionally replaces or retitles insight cards and keeps
// them ordered by priority. The input slice is modified in place.
func rotateInsights(in []Insight, e Entropy, now time.Time) []Insight {
	if len(in) == 0 || !e.Chance(0.5) {
		return in
	}

	if e.Chance(0.3) {
		kind := insightKinds[e.IntN(len(insightKinds))]
		idx := e.IntN(len(in))
		in[idx] = Insight{
			ID:          now.UnixMilli(),
			Kind:        kind,
			Title:       insightTitles[e.IntN(len(insightTitles))],
			Description: insightDescriptions[e.IntN(len(insightDescriptions))],
			Badge:       kind.Badge(),
			Action:      kind.Action(),
			Priority:    e.IntN(4) + 1,
		}
	} else {
		for i := range in {
			if !e.Chance(0.3) {
				continue
			}
			in[i].Title = insightTitles[e.IntN(len(insightTitles))]
			in[i].Description = insightDescriptions[e.IntN(len(insightDescriptions))]
			in[i].Priority = e.IntN(4) + 1
		}
	}

	slices.SortStableFunc(in, func(a, b Insight) int { return a.Priority - b.Priority })
	return in
}
