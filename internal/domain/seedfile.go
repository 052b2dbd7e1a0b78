package domain

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// SeedFile overrides parts of the built-in seed snapshot and quiet-zone
// catalog. Omitted sections keep their defaults.
type SeedFile struct {
	Areas      []SeedArea  `yaml:"areas,omitempty"`
	Stats      *SeedStats  `yaml:"stats,omitempty"`
	QuietZones []QuietZone `yaml:"quiet_zones,omitempty"`
}

// SeedArea is one area entry in a seed file.
type SeedArea struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
	Color string  `yaml:"color"`
}

// SeedStats are the headline stats in a seed file.
type SeedStats struct {
	AverageNoise   float64 `yaml:"average_noise"`
	QuietZones     int     `yaml:"quiet_zones"`
	Complaints     int     `yaml:"complaints"`
	NoiseReduction float64 `yaml:"noise_reduction"`
	Trend          Trend   `yaml:"trend"`
}

// ParseSeedFile decodes a YAML seed file.
func ParseSeedFile(r io.Reader) (SeedFile, error) {
	var f SeedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return SeedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

// LoadSeedFile reads and decodes the seed file at path.
func LoadSeedFile(path string) (SeedFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()
	return ParseSeedFile(fh)
}

// Apply overlays the file onto snap and validates the result.
func (f SeedFile) Apply(snap Snapshot) (Snapshot, error) {
	out := snap.Clone()
	if len(f.Areas) > 0 {
		out.Areas = make([]Slice, len(f.Areas))
		for i, a := range f.Areas {
			out.Areas[i] = Slice(a)
		}
	}
	if f.Stats != nil {
		trend := f.Stats.Trend
		if trend == "" {
			trend = TrendStable
		}
		out.Stats = Stats{
			AverageNoise:   f.Stats.AverageNoise,
			QuietZones:     f.Stats.QuietZones,
			Complaints:     f.Stats.Complaints,
			NoiseReduction: f.Stats.NoiseReduction,
			Trend:          trend,
		}
	}
	if err := out.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("apply seed file: %w", err)
	}
	return out, nil
}

// Zones returns the catalog to serve: the file's zones when present,
// otherwise the built-in defaults.
func (f SeedFile) Zones() []QuietZone {
	if len(f.QuietZones) > 0 {
		return f.QuietZones
	}
	return DefaultQuietZones()
}

// EncodeSeedFile writes f as YAML.
func EncodeSeedFile(w io.Writer, f SeedFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode seed file: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// SeedFileFrom captures the overridable sections of snap.
func SeedFileFrom(snap Snapshot, zones []QuietZone) SeedFile {
	f := SeedFile{QuietZones: zones}
	for _, a := range snap.Areas {
		f.Areas = append(f.Areas, SeedArea(a))
	}
	f.Stats = &SeedStats{
		AverageNoise:   snap.Stats.AverageNoise,
		QuietZones:     snap.Stats.QuietZones,
		Complaints:     snap.Stats.Complaints,
		NoiseReduction: snap.Stats.NoiseReduction,
		Trend:          snap.Stats.Trend,
	}
	return f
}
