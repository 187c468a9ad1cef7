package muscles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	all := Catalog()
	require.Len(t, all, 22)

	seen := make(map[int]bool)
	for i, m := range all {
		assert.Equal(t, i+1, m.ID)
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
		assert.NotEqual(t, RegionUndefined, m.BodyRegion, "muscle %s has no region", m.Name)
	}

	// mutating the copy must not leak into the catalog
	all[0].Name = "changed"
	assert.Equal(t, "Abs", Catalog()[0].Name)
}

func TestRegionOf(t *testing.T) {
	assert.Equal(t, RegionUpper, RegionOf(7))
	assert.Equal(t, RegionLower, RegionOf(17))
	assert.Equal(t, RegionCore, RegionOf(1))
	assert.Equal(t, RegionUndefined, RegionOf(999))
}

func TestNameAndIDLookups(t *testing.T) {
	name, ok := NameByID(13)
	require.True(t, ok)
	assert.Equal(t, "Lats", name)

	_, ok = NameByID(0)
	assert.False(t, ok)

	id, ok := IDByName("lower BACK")
	require.True(t, ok)
	assert.Equal(t, 14, id)

	_, ok = IDByName("neck")
	assert.False(t, ok)
}

func TestElementID(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Front Delts", "frontdelts"},
		{"anterior delts", "frontdelts"},
		{"Lateral Delts", "sidedelts"},
		{"Posterior Delts", "reardelts"},
		{"Forearm Extensors", "forearmextendors"},
		{"Trapezius", "traps"},
		{"Hip Flexors", "hipflexors"},
		{"Chest", "chest"},
		{"  Upper   Chest ", "upperchest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ElementID(tc.name))
		})
	}
}
