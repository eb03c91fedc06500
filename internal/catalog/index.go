package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/pkg/models"
)

// Index is an in-memory, read-only view over the furniture catalog. It is
// built once at startup and shared by all requests without locking.
type Index struct {
	byCategory map[models.Category][]models.FurnitureItem
	count      int
}

// NewIndex builds an index over the given catalog snapshot
func NewIndex(items []models.FurnitureItem) *Index {
	byCategory := make(map[models.Category][]models.FurnitureItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}
	return &Index{byCategory: byCategory, count: len(items)}
}

// Load reads the full catalog from the repository and indexes it. The design
// core requires the catalog fully loaded before any query, so this runs once
// during process startup.
func Load(ctx context.Context, repo repository.CatalogRepository) (*Index, error) {
	items, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewIndex(items), nil
}

// Len returns the number of indexed items
func (ix *Index) Len() int {
	return ix.count
}

// Query returns candidates for a category ranked by style affinity combined
// with a size-fit term. An empty result means "category unsatisfiable" and
// is not an error; the planner handles it. Ordering is fully deterministic:
// score descending, then price ascending, then ID.
func (ix *Index) Query(category models.Category, profile models.StyleProfile, room *models.RoomDescriptor) []models.FurnitureItem {
	items := ix.byCategory[category]
	if len(items) == 0 {
		return nil
	}

	largest := largestRegion(room)

	type scored struct {
		item  models.FurnitureItem
		score float64
	}
	ranked := make([]scored, 0, len(items))
	for _, item := range items {
		s := styleAffinity(item, profile) - sizePenalty(item, largest)
		ranked = append(ranked, scored{item: item, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].item.Price != ranked[j].item.Price {
			return ranked[i].item.Price < ranked[j].item.Price
		}
		return ranked[i].item.ID < ranked[j].item.ID
	})

	result := make([]models.FurnitureItem, len(ranked))
	for i, r := range ranked {
		result[i] = r.item
	}
	return result
}

// styleAffinity is the dot product of the item's tags and the profile weights
func styleAffinity(item models.FurnitureItem, profile models.StyleProfile) float64 {
	var sum float64
	for _, tag := range item.StyleTags {
		sum += profile[tag]
	}
	return sum
}

// sizePenalty penalizes items whose footprint cannot fit the largest free
// region in either orientation
func sizePenalty(item models.FurnitureItem, largest models.Rect) float64 {
	if largest.W <= 0 || largest.H <= 0 {
		return 1.0
	}
	fits := (item.Width <= largest.W && item.Depth <= largest.H) ||
		(item.Depth <= largest.W && item.Width <= largest.H)
	if fits {
		return 0
	}
	return 1.0
}

func largestRegion(room *models.RoomDescriptor) models.Rect {
	var best models.Rect
	if room == nil {
		return best
	}
	for _, r := range room.FreeSpace {
		if r.Area() > best.Area() {
			best = r
		}
	}
	return best
}
