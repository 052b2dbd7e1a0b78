package reportstore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// MemoryStore keeps reports in process memory. Reports are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]domain.NoiseReport
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]domain.NoiseReport)}
}

// Save stores r, ignoring a report whose ID is already present.
func (m *MemoryStore) Save(_ context.Context, r domain.NoiseReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		m.reports[r.ID] = r
	}
	return nil
}

// List returns up to limit reports, newest first.
func (m *MemoryStore) List(_ context.Context, limit int) ([]domain.NoiseReport, error) {
	m.mu.RLock()
	out := make([]domain.NoiseReport, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	m.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (m *MemoryStore) Close() error { return nil }

// newestFirst sorts by submission time descending, breaking ties by ID, and
// truncates to limit.
func newestFirst(reports []domain.NoiseReport, limit int) []domain.NoiseReport {
	slices.SortFunc(reports, func(a, b domain.NoiseReport) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports
}
