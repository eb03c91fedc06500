package planner

import (
	"sort"

	"github.com/rmcgill/roomstage/pkg/models"
)

const eps = 1e-9

// contains reports whether the footprint lies entirely within the region,
// allowing the configured slack on each edge
func contains(region, fp models.Rect, tol float64) bool {
	return fp.X >= region.X-tol-eps &&
		fp.Y >= region.Y-tol-eps &&
		fp.X+fp.W <= region.X+region.W+tol+eps &&
		fp.Y+fp.H <= region.Y+region.H+tol+eps
}

// overlaps reports whether two footprints intersect beyond the tolerance.
// Shared edges do not count as overlap.
func overlaps(a, b models.Rect, tol float64) bool {
	ow := min(a.X+a.W, b.X+b.W) - max(a.X, b.X)
	oh := min(a.Y+a.H, b.Y+b.H) - max(a.Y, b.Y)
	return ow > tol+eps && oh > tol+eps
}

// subtract removes a footprint from a region, returning the remaining area
// as up to four disjoint rectangles (left, right, top, bottom strips)
func subtract(region, fp models.Rect) []models.Rect {
	ix1 := max(region.X, fp.X)
	iy1 := max(region.Y, fp.Y)
	ix2 := min(region.X+region.W, fp.X+fp.W)
	iy2 := min(region.Y+region.H, fp.Y+fp.H)

	if ix2-ix1 <= eps || iy2-iy1 <= eps {
		return []models.Rect{region}
	}

	var pieces []models.Rect
	add := func(r models.Rect) {
		if r.W > eps && r.H > eps {
			pieces = append(pieces, r)
		}
	}

	add(models.Rect{X: region.X, Y: region.Y, W: ix1 - region.X, H: region.H})
	add(models.Rect{X: ix2, Y: region.Y, W: region.X + region.W - ix2, H: region.H})
	add(models.Rect{X: ix1, Y: region.Y, W: ix2 - ix1, H: iy1 - region.Y})
	add(models.Rect{X: ix1, Y: iy2, W: ix2 - ix1, H: region.Y + region.H - iy2})

	return pieces
}

// repartition subtracts every placed footprint from the regions and drops
// slivers below the minimum usable dimension. Recomputing the whole set
// after a placement pass keeps the regions disjoint by construction.
func repartition(regions []models.Rect, placed []models.PlacedItem, minDim float64) []models.Rect {
	current := regions
	for _, item := range placed {
		var next []models.Rect
		for _, region := range current {
			next = append(next, subtract(region, item.Footprint)...)
		}
		current = next
	}

	var usable []models.Rect
	for _, r := range current {
		if r.W >= minDim && r.H >= minDim {
			usable = append(usable, r)
		}
	}
	sortRegions(usable)
	return usable
}

// sortRegions orders regions largest-first with a positional tie-break so
// iteration order is reproducible
func sortRegions(regions []models.Rect) {
	sort.SliceStable(regions, func(i, j int) bool {
		ai, aj := regions[i].Area(), regions[j].Area()
		if ai != aj {
			return ai > aj
		}
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
