// Command validate checks the mock fixtures written by genmock: the seed file
// must overlay cleanly onto the built-in seed, and every snapshot in the JSON
// fixture must satisfy the value ranges, serve every view, and advance in time.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -seed-file data/mock/seed.yaml \
//	  -snapshots data/mock/snapshots.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	seedPath := flag.String("seed-file", "", "path to the YAML seed file")
	snapshotsPath := flag.String("snapshots", "", "path to the JSON snapshot fixture")
	flag.Parse()

	if *seedPath == "" || *snapshotsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*seedPath, *snapshotsPath); code != 0 {
		os.Exit(code)
	}
}

func run(seedPath, snapshotsPath string) int {
	fmt.Println("=== Soundscape Fixture Validation ===")
	fmt.Println()

	seedFile, err := domain.LoadSeedFile(seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load seed file: %v\n", err)
		return 1
	}

	snapshots, err := loadSnapshots(snapshotsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshots: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSeedFile(seedFile),
		validateQuietZones(seedFile.Zones()),
		validateSnapshotRanges(snapshots),
		validateViews(snapshots),
		validateTimeline(snapshots),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Fixtures: %d seed areas, %d quiet zones, %d snapshots\n",
		len(seedFile.Areas), len(seedFile.Zones()), len(snapshots))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadSnapshots(path string) ([]domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snaps []domain.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshots in %s", path)
	}
	return snaps, nil
}

// ── Validation phases ──

func validateSeedFile(f domain.SeedFile) *phase {
	p := &phase{name: "Seed file overlay"}
	base := domain.NewSeedSnapshot(domain.NewEntropy(1), time.Now())
	applied, err := f.Apply(base)
	if err != nil {
		p.errorf("apply: %v", err)
		return p
	}
	if len(f.Areas) > 0 && len(applied.Areas) != len(f.Areas) {
		p.errorf("areas: got %d after apply, file has %d", len(applied.Areas), len(f.Areas))
	}
	if f.Stats != nil && applied.Stats.AverageNoise != f.Stats.AverageNoise {
		p.errorf("stats.average_noise: got %.1f after apply, file has %.1f",
			applied.Stats.AverageNoise, f.Stats.AverageNoise)
	}
	return p
}

func validateQuietZones(zones []domain.QuietZone) *phase {
	p := &phase{name: "Quiet zone catalog"}
	seen := make(map[int]bool, len(zones))
	for i, z := range zones {
		if seen[z.ID] {
			p.errorf("zones[%d]: duplicate id %d", i, z.ID)
		}
		seen[z.ID] = true
		if z.Name == "" {
			p.errorf("zones[%d]: empty name", i)
		}
		if err := (domain.Coordinates{Lat: z.Lat, Lon: z.Lon}).Validate(); err != nil {
			p.errorf("zones[%d] %q: %v", i, z.Name, err)
		}
		if z.Level < 0 {
			p.errorf("zones[%d] %q: negative noise level %.1f", i, z.Name, z.Level)
		}
	}
	return p
}

func validateSnapshotRanges(snaps []domain.Snapshot) *phase {
	p := &phase{name: "Snapshot value ranges"}
	for i, s := range snaps {
		if err := s.Validate(); err != nil {
			p.errorf("snapshots[%d] %s: %v", i, s.Timestamp.Format(time.RFC3339), err)
		}
	}
	return p
}

func validateViews(snaps []domain.Snapshot) *phase {
	p := &phase{name: "Category views"}
	for i, s := range snaps {
		for _, name := range domain.ViewNames() {
			v, err := domain.View(s, name)
			if err != nil {
				p.errorf("snapshots[%d] view %q: %v", i, name, err)
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				p.errorf("snapshots[%d] view %q: encode: %v", i, name, err)
				continue
			}
			if string(data) == "null" || string(data) == "[]" {
				p.errorf("snapshots[%d] view %q: empty", i, name)
			}
		}
	}
	return p
}

func validateTimeline(snaps []domain.Snapshot) *phase {
	p := &phase{name: "Snapshot timeline"}
	for i := 1; i < len(snaps); i++ {
		if !snaps[i].Timestamp.After(snaps[i-1].Timestamp) {
			p.errorf("snapshots[%d]: timestamp %s does not follow %s", i,
				snaps[i].Timestamp.Format(time.RFC3339), snaps[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return p
}
