// Package domain models the synthetic noise telemetry served by SoundScape.
//
// # Snapshots
//
// A Snapshot is one immutable frame of mock city noise data: per-area levels,
// a 24-slot hourly curve, headline stats, and a set of derived chart views
// (pie, histogram, calendar heatmap, map sample points, insight cards).
// Snapshots are values. Perturb never mutates its input; it deep-copies the
// previous frame and returns a new one, so a published snapshot can be shared
// between readers without locking.
//
// # Clamp Ranges
//
// Every numeric field has a documented spread and clamp range. A random delta
// drawn uniformly from [-spread, +spread] is added and the result is clamped:
//
//	areas, noiseByArea          ±5   35–95 dB
//	hourly                      ±5   35–85 dB
//	locationData                ±4   35–85 dB
//	complaintData               ±2    0–20
//	pie, distribution, share    ±5    5–40 %
//	histogram, frequency        ±5    1–40
//	byTime, byLocation, compare ±5   35–85 dB
//	calendar z                  ±5   30–85 dB
//	heatmap level               ±3   35–95 dB
//	averageNoise                ±2   35–95 dB (0.1 dB resolution)
//	noiseReduction              ±0.4 -20–20 % (0.1 resolution)
//
// Stats are perturbed independently of the areas they summarise, so
// averageNoise is not the mean of the area values. Consumers must not assume
// the views are mutually consistent.
//
// # Randomness
//
// All randomness flows through the Entropy interface. Production code uses a
// seeded PCG source; tests substitute a fixed source to get exact deltas.
//
// # Classification
//
// Decibel readings are bucketed for display and health guidance:
//
//	< 45 dB  Very Quiet   No health impact
//	< 55 dB  Quiet        No significant health impact
//	< 65 dB  Moderate     Minimal health impact
//	< 75 dB  Loud         Moderate health impact
//	≥ 75 dB  Very Loud    Significant health impact
//
// # Geocoding
//
// Noise reports and location lookups are optionally enriched through a
// Geocoder. Enrichment never fails the caller: geocoder errors degrade to
// GeoSource "failed" and the original input is kept.
package domain
