// Command genmock writes reproducible fixtures for local runs and tests: a
// YAML seed file capturing the built-in seed snapshot and quiet-zone catalog,
// and a JSON array of snapshots produced by perturbing that seed.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -seed-out data/mock/seed.yaml \
//	  -snapshots-out data/mock/snapshots.json \
//	  -ticks 12
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// baseTime anchors every generated timestamp so reruns produce identical files.
var baseTime = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seedOut := flag.String("seed-out", "", "output path for the YAML seed file")
	snapshotsOut := flag.String("snapshots-out", "", "output path for the JSON snapshot fixture")
	ticks := flag.Int("ticks", 12, "number of perturbed snapshots after the seed")
	interval := flag.Duration("interval", 5*time.Second, "simulated time between snapshots")
	randomSeed := flag.Uint64("random-seed", 42, "entropy seed")
	flag.Parse()

	if *seedOut == "" || *snapshotsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -seed-out, -snapshots-out")
	}
	if *ticks < 0 {
		return fmt.Errorf("invalid -ticks %d: must be >= 0", *ticks)
	}

	entropy := domain.NewEntropy(*randomSeed)
	seed := domain.NewSeedSnapshot(entropy, baseTime)

	var buf bytes.Buffer
	if err := domain.EncodeSeedFile(&buf, domain.SeedFileFrom(seed, domain.DefaultQuietZones())); err != nil {
		return err
	}
	if err := writeFile(*seedOut, buf.Bytes()); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	log.Printf("seed file: %s", *seedOut)

	snapshots, err := generate(seed, entropy, *ticks, *interval)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := writeFile(*snapshotsOut, data); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	log.Printf("snapshots: %d written to %s", len(snapshots), *snapshotsOut)
	return nil
}

// generate returns the seed followed by ticks perturbed successors.
func generate(seed domain.Snapshot, entropy domain.Entropy, ticks int, interval time.Duration) ([]domain.Snapshot, error) {
	out := make([]domain.Snapshot, 0, ticks+1)
	out = append(out, seed)
	prev := seed
	for i := 1; i <= ticks; i++ {
		next, err := domain.Perturb(prev, entropy, baseTime.Add(time.Duration(i)*interval))
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}
		out = append(out, next)
		prev = next
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
