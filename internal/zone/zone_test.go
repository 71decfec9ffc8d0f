package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zonemart/zonemart/internal/zone"
)

func TestZone_Valid(t *testing.T) {
	for _, z := range []zone.Zone{zone.North, zone.South, zone.East, zone.West, zone.Central} {
		assert.True(t, z.Valid(), "%s must be valid", z)
	}

	assert.False(t, zone.Zone("").Valid())
	assert.False(t, zone.Zone("north").Valid(), "zones are case sensitive")
	assert.False(t, zone.Zone("NORTHEAST").Valid())
}

func TestIntersects(t *testing.T) {
	assert.True(t, zone.Intersects(
		[]zone.Zone{zone.North, zone.Central},
		[]zone.Zone{zone.Central, zone.South},
	))
	assert.False(t, zone.Intersects(
		[]zone.Zone{zone.North},
		[]zone.Zone{zone.South, zone.East},
	))
	assert.False(t, zone.Intersects(nil, []zone.Zone{zone.North}))
	assert.False(t, zone.Intersects([]zone.Zone{zone.North}, nil))
}

func TestFromStrings_RoundTrip(t *testing.T) {
	raw := []string{"NORTH", "WEST"}
	zs := zone.FromStrings(raw)

	assert.Equal(t, []zone.Zone{zone.North, zone.West}, zs)
	assert.Equal(t, raw, zone.ToStrings(zs))
}
