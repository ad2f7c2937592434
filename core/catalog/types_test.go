package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionRangeContains(t *testing.T) {
	r := DimensionRange{Min: 24, Max: 48}

	// Bounds are inclusive on both ends.
	assert.True(t, r.Contains(24))
	assert.True(t, r.Contains(48))
	assert.True(t, r.Contains(36))
	assert.False(t, r.Contains(23.99))
	assert.False(t, r.Contains(48.01))
}

func TestMatrixRowCovers(t *testing.T) {
	row := PricingMatrixRow{
		Width:  DimensionRange{Min: 24, Max: 48},
		Height: DimensionRange{Min: 12, Max: 36},
	}

	assert.True(t, row.Covers(36, 24))
	assert.True(t, row.Covers(24, 12))
	assert.True(t, row.Covers(48, 36))
	assert.False(t, row.Covers(50, 24))
	assert.False(t, row.Covers(36, 40))
}
