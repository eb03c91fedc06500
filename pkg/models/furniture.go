package models

// Category identifies a furniture category in the catalog
type Category string

const (
	CategorySofa     Category = "sofa"
	CategoryBed      Category = "bed"
	CategoryTable    Category = "table"
	CategoryChair    Category = "chair"
	CategoryStorage  Category = "storage"
	CategoryLighting Category = "lighting"
	CategoryDecor    Category = "decor"
)

// RoomType identifies the kind of room being furnished
type RoomType string

const (
	RoomTypeLivingRoom RoomType = "living_room"
	RoomTypeBedroom    RoomType = "bedroom"
	RoomTypeUnknown    RoomType = "unknown"
)

// FurnitureItem represents a single catalog product. Items are immutable
// once loaded; dimensions are in meters, price in the catalog currency.
type FurnitureItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	StyleTags  []string `json:"style_tags"`
	Width      float64  `json:"width"`
	Depth      float64  `json:"depth"`
	Height     float64  `json:"height"`
	Price      float64  `json:"price"`
	ImageRef   string   `json:"image_ref,omitempty"`
	ProductURL string   `json:"product_url,omitempty"`
}

// StyleProfile maps style tags to weights in [0,1]. Created by the style
// resolver from user input; read-only afterwards.
type StyleProfile map[string]float64
