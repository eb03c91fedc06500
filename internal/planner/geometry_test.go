package planner

import (
	"testing"

	"github.com/rmcgill/roomstage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	region := models.Rect{X: 0, Y: 0, W: 4, H: 3}

	assert.True(t, contains(region, models.Rect{X: 1, Y: 1, W: 2, H: 1}, 0))
	assert.True(t, contains(region, models.Rect{X: 0, Y: 0, W: 4, H: 3}, 0), "exact fit counts")
	assert.False(t, contains(region, models.Rect{X: 3, Y: 0, W: 2, H: 1}, 0), "spills past the right edge")
	assert.False(t, contains(region, models.Rect{X: -0.5, Y: 0, W: 1, H: 1}, 0))
}

func TestOverlaps(t *testing.T) {
	a := models.Rect{X: 0, Y: 0, W: 2, H: 2}

	assert.True(t, overlaps(a, models.Rect{X: 1, Y: 1, W: 2, H: 2}, 0))
	assert.False(t, overlaps(a, models.Rect{X: 2, Y: 0, W: 2, H: 2}, 0), "shared edge is not overlap")
	assert.False(t, overlaps(a, models.Rect{X: 3, Y: 3, W: 1, H: 1}, 0))

	// Tolerance permits shallow intrusion
	assert.False(t, overlaps(a, models.Rect{X: 1.95, Y: 0, W: 2, H: 2}, 0.1))
	assert.True(t, overlaps(a, models.Rect{X: 1.5, Y: 0, W: 2, H: 2}, 0.1))
}

func TestSubtractDisjointPieces(t *testing.T) {
	region := models.Rect{X: 0, Y: 0, W: 4, H: 3}
	fp := models.Rect{X: 1, Y: 1, W: 1, H: 1}

	pieces := subtract(region, fp)
	require.Len(t, pieces, 4)

	var area float64
	for i, p := range pieces {
		area += p.Area()
		assert.False(t, overlaps(p, fp, 0), "piece %d overlaps the footprint", i)
		for j := i + 1; j < len(pieces); j++ {
			assert.False(t, overlaps(p, pieces[j], 0), "pieces %d and %d overlap", i, j)
		}
	}
	assert.InDelta(t, region.Area()-fp.Area(), area, 1e-9)
}

func TestSubtractNoIntersection(t *testing.T) {
	region := models.Rect{X: 0, Y: 0, W: 2, H: 2}
	fp := models.Rect{X: 5, Y: 5, W: 1, H: 1}

	pieces := subtract(region, fp)
	require.Len(t, pieces, 1)
	assert.Equal(t, region, pieces[0])
}

func TestSubtractFootprintAtEdge(t *testing.T) {
	region := models.Rect{X: 0, Y: 0, W: 4, H: 3}
	fp := models.Rect{X: 0, Y: 0, W: 2, H: 3}

	pieces := subtract(region, fp)
	require.Len(t, pieces, 1)
	assert.Equal(t, models.Rect{X: 2, Y: 0, W: 2, H: 3}, pieces[0])
}

func TestRepartitionDropsSlivers(t *testing.T) {
	regions := []models.Rect{{X: 0, Y: 0, W: 4, H: 3}}
	placed := []models.PlacedItem{
		{Footprint: models.Rect{X: 0, Y: 0, W: 3.9, H: 3}},
	}

	remaining := repartition(regions, placed, 0.3)
	assert.Empty(t, remaining, "a 0.1m strip is not usable space")
}

func TestRepartitionOrdersLargestFirst(t *testing.T) {
	regions := []models.Rect{{X: 0, Y: 0, W: 4, H: 3}}
	placed := []models.PlacedItem{
		{Footprint: models.Rect{X: 1, Y: 0, W: 1, H: 3}},
	}

	remaining := repartition(regions, placed, 0.3)
	require.Len(t, remaining, 2)
	assert.Equal(t, models.Rect{X: 2, Y: 0, W: 2, H: 3}, remaining[0])
	assert.Equal(t, models.Rect{X: 0, Y: 0, W: 1, H: 3}, remaining[1])
}
