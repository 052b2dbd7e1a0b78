package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoneIDs(zones []QuietZone) []int {
	ids := make([]int, len(zones))
	for i, z := range zones {
		ids[i] = z.ID
	}
	return ids
}

func TestFilterQuietZones_ByLevel(t *testing.T) {
	got := FilterQuietZones(DefaultQuietZones(), 42, nil)

	assert.Equal(t, []int{4, 2, 1}, zoneIDs(got))
	for _, z := range got {
		assert.Nil(t, z.DistanceKm)
	}
}

func TestFilterQuietZones_NoLimit(t *testing.T) {
	got := FilterQuietZones(DefaultQuietZones(), 0, nil)

	assert.Equal(t, []int{4, 2, 1, 3, 5}, zoneIDs(got))
}

func TestFilterQuietZones_NearestFirst(t *testing.T) {
	origin := &Coordinates{Lat: 40.7228, Lon: -74.018}

	got := FilterQuietZones(DefaultQuietZones(), 0, origin)

	require.Len(t, got, 5)
	assert.Equal(t, 4, got[0].ID)
	require.NotNil(t, got[0].DistanceKm)
	assert.Equal(t, 0.0, *got[0].DistanceKm)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, *got[i-1].DistanceKm, *got[i].DistanceKm)
	}
}

func TestFilterQuietZones_DoesNotModifyInput(t *testing.T) {
	zones := DefaultQuietZones()

	got := FilterQuietZones(zones, 0, &Coordinates{Lat: 40.7, Lon: -74})
	got[0].Amenities[0] = "changed"

	assert.Equal(t, []int{1, 2, 3, 4, 5}, zoneIDs(zones))
	for _, z := range zones {
		assert.Nil(t, z.DistanceKm)
		assert.NotEqual(t, "changed", z.Amenities[0])
	}
}
