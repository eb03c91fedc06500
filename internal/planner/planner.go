package planner

import (
	"github.com/rmcgill/roomstage/internal/catalog"
	"github.com/rmcgill/roomstage/pkg/models"
)

// Requirements lists which furniture categories a room type needs
type Requirements struct {
	Required []models.Category
	Optional []models.Category
}

// roomRequirements is process-wide read-only policy; unknown rooms get a
// generic set so a caller that could not classify still gets a usable layout
var roomRequirements = map[models.RoomType]Requirements{
	models.RoomTypeLivingRoom: {
		Required: []models.Category{models.CategorySofa, models.CategoryTable, models.CategoryLighting},
		Optional: []models.Category{models.CategoryStorage, models.CategoryChair, models.CategoryDecor},
	},
	models.RoomTypeBedroom: {
		Required: []models.Category{models.CategoryBed, models.CategoryStorage, models.CategoryLighting},
		Optional: []models.Category{models.CategoryChair, models.CategoryTable, models.CategoryDecor},
	},
	models.RoomTypeUnknown: {
		Required: []models.Category{models.CategoryTable, models.CategoryChair, models.CategoryLighting},
		Optional: []models.Category{models.CategoryStorage, models.CategoryDecor},
	},
}

// categoryPriority fixes the placement order: anchor furniture first. A
// policy constant, never derived per request, so layouts are reproducible.
var categoryPriority = []models.Category{
	models.CategoryBed,
	models.CategorySofa,
	models.CategoryStorage,
	models.CategoryTable,
	models.CategoryChair,
	models.CategoryLighting,
	models.CategoryDecor,
}

// wallFlush marks categories placed against the wall edge of a region;
// everything else defaults to centered
var wallFlush = map[models.Category]bool{
	models.CategoryBed:     true,
	models.CategorySofa:    true,
	models.CategoryStorage: true,
}

// Score weights for the aggregate coherence score
const (
	affinityWeight = 0.5
	coverageWeight = 0.35
	balanceWeight  = 0.15
)

// Config holds the planner's tunables
type Config struct {
	OverlapTolerance float64 // allowed footprint overlap in meters, 0 by default
	MinRegionMeters  float64 // regions smaller than this in either dimension are unusable
	StepMeters       float64 // position search granularity
	Alternatives     int     // candidate layouts generated per request
}

// DefaultConfig returns the planner defaults
func DefaultConfig() Config {
	return Config{
		OverlapTolerance: 0,
		MinRegionMeters:  0.3,
		StepMeters:       0.1,
		Alternatives:     3,
	}
}

// Planner is the layout generation core: greedy placement with per-category
// backtracking over ranked catalog candidates. A full combinatorial packing
// solver was considered and rejected; the scoring function is the extension
// point if layout quality ever needs a global optimization pass.
type Planner struct {
	catalog *catalog.Index
	cfg     Config
}

// New creates a planner over the given catalog index
func New(index *catalog.Index, cfg Config) *Planner {
	if cfg.StepMeters <= 0 {
		cfg.StepMeters = 0.1
	}
	if cfg.Alternatives < 1 {
		cfg.Alternatives = 1
	}
	return &Planner{catalog: index, cfg: cfg}
}

// Plan returns the best-scoring layout for the room. It never fails: rooms
// with no usable free space or an empty catalog produce a degenerate layout
// with the shortfalls recorded in the coverage report.
func (p *Planner) Plan(room *models.RoomDescriptor, profile models.StyleProfile) *models.Layout {
	return p.PlanK(room, profile, p.cfg.Alternatives)[0]
}

// PlanK returns up to k candidate layouts, best first. Variants differ in
// the anchor item: variant i skips the i top-ranked candidates for the
// highest-priority required category. Ties are broken by lower total price,
// then by generation order.
func (p *Planner) PlanK(room *models.RoomDescriptor, profile models.StyleProfile, k int) []*models.Layout {
	if k < 1 {
		k = 1
	}

	reqs := requirementsFor(room.RoomType)
	required := orderByPriority(reqs.Required)

	anchorCandidates := 1
	if len(required) > 0 {
		if n := len(p.catalog.Query(required[0], profile, room)); n > 0 {
			anchorCandidates = n
		}
	}
	if k > anchorCandidates {
		k = anchorCandidates
	}

	layouts := make([]*models.Layout, 0, k)
	for skip := 0; skip < k; skip++ {
		layouts = append(layouts, p.build(room, profile, reqs, skip))
	}

	// Stable selection sort on (score desc, price asc); generation order
	// breaks remaining ties because the sort is stable over a stable slice.
	best := make([]*models.Layout, len(layouts))
	copy(best, layouts)
	for i := 0; i < len(best); i++ {
		top := i
		for j := i + 1; j < len(best); j++ {
			if best[j].Score > best[top].Score ||
				(best[j].Score == best[top].Score && best[j].TotalPrice < best[top].TotalPrice) {
				top = j
			}
		}
		best[i], best[top] = best[top], best[i]
	}
	return best
}

// build runs one full placement pass: required categories against the
// detected regions, then a re-partition, then optional categories against
// the shrunken regions.
func (p *Planner) build(room *models.RoomDescriptor, profile models.StyleProfile, reqs Requirements, anchorSkip int) *models.Layout {
	regions := usableRegions(room.FreeSpace, p.cfg.MinRegionMeters)

	layout := &models.Layout{}
	var placed []models.PlacedItem

	required := orderByPriority(reqs.Required)
	for i, cat := range required {
		skip := 0
		if i == 0 {
			skip = anchorSkip
		}
		item, status := p.placeCategory(cat, profile, room, regions, placed, skip)
		layout.Report = append(layout.Report, models.CoverageEntry{Category: cat, Required: true, Status: status})
		if status == models.CoveragePlaced {
			placed = append(placed, item)
		}
	}

	// Optional items only get what the anchors left behind
	regions = repartition(regions, placed, p.cfg.MinRegionMeters)

	for _, cat := range orderByPriority(reqs.Optional) {
		item, status := p.placeCategory(cat, profile, room, regions, placed, 0)
		layout.Report = append(layout.Report, models.CoverageEntry{Category: cat, Required: false, Status: status})
		if status == models.CoveragePlaced {
			placed = append(placed, item)
		}
	}

	layout.Items = placed
	for _, item := range placed {
		layout.TotalPrice += item.Item.Price
	}
	layout.Coverage = requiredCoverage(layout.Report)
	layout.Score = p.score(layout, profile, room)

	return layout
}

// placeCategory tries ranked candidates until one fits, scanning regions
// largest-first. Distinguishes "no catalog match" from "no space".
func (p *Planner) placeCategory(cat models.Category, profile models.StyleProfile, room *models.RoomDescriptor, regions []models.Rect, placed []models.PlacedItem, skip int) (models.PlacedItem, models.CoverageStatus) {
	candidates := p.catalog.Query(cat, profile, room)
	if len(candidates) == 0 {
		return models.PlacedItem{}, models.CoverageNoCatalogMatch
	}
	if skip > 0 && skip < len(candidates) {
		candidates = candidates[skip:]
	}
	if len(regions) == 0 {
		return models.PlacedItem{}, models.CoverageNoSpace
	}

	for _, item := range candidates {
		for _, region := range regions {
			if pi, ok := p.tryPlace(item, cat, region, placed); ok {
				return pi, models.CoveragePlaced
			}
		}
	}
	return models.PlacedItem{}, models.CoverageNoSpace
}

// tryPlace searches for a valid position inside one region. Wall-flush
// categories sit against the region's longest wall edge, preferring the
// centered spot; centered categories start from the region's middle. When
// the preferred spot collides the search falls back to a fixed-step scan,
// so placement stays deterministic.
func (p *Planner) tryPlace(item models.FurnitureItem, cat models.Category, region models.Rect, placed []models.PlacedItem) (models.PlacedItem, bool) {
	for _, o := range orientations(item, region) {
		if o.w > region.W+eps || o.h > region.H+eps {
			continue
		}

		var positions []models.Point
		if wallFlush[cat] {
			positions = p.wallPositions(region, o.w, o.h)
		} else {
			positions = p.centeredPositions(region, o.w, o.h)
		}

		for _, pos := range positions {
			fp := models.Rect{X: pos.X, Y: pos.Y, W: o.w, H: o.h}
			if !contains(region, fp, p.cfg.OverlapTolerance) {
				continue
			}
			if p.collides(fp, placed) {
				continue
			}
			return models.PlacedItem{
				Item:      item,
				X:         fp.X,
				Y:         fp.Y,
				Rotation:  o.rotation,
				Footprint: fp,
			}, true
		}
	}
	return models.PlacedItem{}, false
}

func (p *Planner) collides(fp models.Rect, placed []models.PlacedItem) bool {
	for _, other := range placed {
		if overlaps(fp, other.Footprint, p.cfg.OverlapTolerance) {
			return true
		}
	}
	return false
}

type orientation struct {
	w, h     float64
	rotation int
}

// orientations aligns the item's longer side with the region's longer side
// first, then offers the 90-degree alternative
func orientations(item models.FurnitureItem, region models.Rect) []orientation {
	aligned := orientation{w: item.Width, h: item.Depth, rotation: 0}
	rotated := orientation{w: item.Depth, h: item.Width, rotation: 90}

	regionWide := region.W >= region.H
	itemWide := item.Width >= item.Depth
	if regionWide == itemWide {
		return []orientation{aligned, rotated}
	}
	return []orientation{rotated, aligned}
}

// wallPositions walks the region's longest wall edge: centered spot first,
// then a scan along the wall. Regions deeper than they are wide flush
// against the left edge instead of the top one.
func (p *Planner) wallPositions(region models.Rect, w, h float64) []models.Point {
	if region.H > region.W {
		positions := []models.Point{{X: region.X, Y: region.Y + (region.H-h)/2}}
		steps := int((region.H - h) / p.cfg.StepMeters)
		for i := 0; i <= steps; i++ {
			positions = append(positions, models.Point{X: region.X, Y: region.Y + float64(i)*p.cfg.StepMeters})
		}
		return positions
	}

	positions := []models.Point{{X: region.X + (region.W-w)/2, Y: region.Y}}
	steps := int((region.W - w) / p.cfg.StepMeters)
	for i := 0; i <= steps; i++ {
		positions = append(positions, models.Point{X: region.X + float64(i)*p.cfg.StepMeters, Y: region.Y})
	}
	return positions
}

// centeredPositions starts at the region's middle, then scans row-major
func (p *Planner) centeredPositions(region models.Rect, w, h float64) []models.Point {
	positions := []models.Point{{X: region.X + (region.W-w)/2, Y: region.Y + (region.H-h)/2}}
	rows := int((region.H - h) / p.cfg.StepMeters)
	cols := int((region.W - w) / p.cfg.StepMeters)
	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			positions = append(positions, models.Point{
				X: region.X + float64(j)*p.cfg.StepMeters,
				Y: region.Y + float64(i)*p.cfg.StepMeters,
			})
		}
	}
	return positions
}

// score computes the aggregate coherence score: mean style affinity of the
// placed items, required-category coverage, and a spatial-balance term that
// penalizes layouts clustered in one spot.
func (p *Planner) score(layout *models.Layout, profile models.StyleProfile, room *models.RoomDescriptor) float64 {
	var affinity float64
	if len(layout.Items) > 0 {
		var sum float64
		for _, pi := range layout.Items {
			a := 0.0
			for _, tag := range pi.Item.StyleTags {
				a += profile[tag]
			}
			if a > 1 {
				a = 1
			}
			sum += a
		}
		affinity = sum / float64(len(layout.Items))
	}

	return affinityWeight*affinity +
		coverageWeight*layout.Coverage +
		balanceWeight*spatialBalance(layout.Items, room)
}

// spatialBalance measures how much of the room's extent the item centers
// span; a single cluster scores near zero
func spatialBalance(items []models.PlacedItem, room *models.RoomDescriptor) float64 {
	if len(items) < 2 {
		return 0
	}

	var roomW, roomH float64
	for _, r := range room.FreeSpace {
		if r.X+r.W > roomW {
			roomW = r.X + r.W
		}
		if r.Y+r.H > roomH {
			roomH = r.Y + r.H
		}
	}
	if roomW <= 0 || roomH <= 0 {
		return 0
	}

	first := items[0].Footprint
	minX, maxX := first.X+first.W/2, first.X+first.W/2
	minY, maxY := first.Y+first.H/2, first.Y+first.H/2
	for _, pi := range items[1:] {
		cx := pi.Footprint.X + pi.Footprint.W/2
		cy := pi.Footprint.Y + pi.Footprint.H/2
		minX, maxX = min(minX, cx), max(maxX, cx)
		minY, maxY = min(minY, cy), max(maxY, cy)
	}

	return ((maxX-minX)/roomW + (maxY-minY)/roomH) / 2
}

func requiredCoverage(report []models.CoverageEntry) float64 {
	var total, placed int
	for _, entry := range report {
		if !entry.Required {
			continue
		}
		total++
		if entry.Status == models.CoveragePlaced {
			placed++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(placed) / float64(total)
}

func requirementsFor(roomType models.RoomType) Requirements {
	if reqs, ok := roomRequirements[roomType]; ok {
		return reqs
	}
	return roomRequirements[models.RoomTypeUnknown]
}

// orderByPriority sorts categories by the fixed placement priority
func orderByPriority(categories []models.Category) []models.Category {
	rank := make(map[models.Category]int, len(categoryPriority))
	for i, cat := range categoryPriority {
		rank[cat] = i
	}

	ordered := make([]models.Category, len(categories))
	copy(ordered, categories)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rank[ordered[j]] < rank[ordered[j-1]]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

func usableRegions(regions []models.Rect, minDim float64) []models.Rect {
	var usable []models.Rect
	for _, r := range regions {
		if r.W >= minDim && r.H >= minDim {
			usable = append(usable, r)
		}
	}
	sortRegions(usable)
	return usable
}
