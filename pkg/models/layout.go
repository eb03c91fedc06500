package models

// Point is a 2D point in floor coordinates (meters)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in floor coordinates (meters)
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the rectangle's area in square meters
func (r Rect) Area() float64 {
	return r.W * r.H
}

// RoomDescriptor is the structured result of analyzing a room photo.
// Immutable after creation; owned by the design session for one request.
type RoomDescriptor struct {
	RoomType     RoomType `json:"room_type"`
	Confidence   float64  `json:"confidence"`
	FloorPolygon []Point  `json:"floor_polygon"`
	FreeSpace    []Rect   `json:"free_space"`
	Scale        float64  `json:"scale"` // meters per pixel
}

// PlacedItem is one furniture item positioned inside the room. Position is
// the top-left corner of the footprint; rotation is in degrees (0 or 90).
type PlacedItem struct {
	Item      FurnitureItem `json:"item"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Rotation  int           `json:"rotation"`
	Footprint Rect          `json:"footprint"`
}

// CoverageStatus records how a required or optional category was resolved
type CoverageStatus string

const (
	CoveragePlaced         CoverageStatus = "placed"
	CoverageNoSpace        CoverageStatus = "no-space"
	CoverageNoCatalogMatch CoverageStatus = "no-catalog-match"
)

// CoverageEntry reports the outcome for one furniture category
type CoverageEntry struct {
	Category Category       `json:"category"`
	Required bool           `json:"required"`
	Status   CoverageStatus `json:"status"`
}

// Layout is the planner's output: placed items plus coverage reporting.
// A zero-item layout with coverage 0 is a valid "could not furnish" result.
type Layout struct {
	Items      []PlacedItem    `json:"items"`
	Score      float64         `json:"score"`
	Coverage   float64         `json:"coverage"`
	Report     []CoverageEntry `json:"report"`
	TotalPrice float64         `json:"total_price"`
}
