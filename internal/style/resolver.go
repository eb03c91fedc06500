package style

import (
	"fmt"
	"strings"

	"github.com/rmcgill/roomstage/pkg/models"
)

// UnknownStyleError is returned when a style label is not in the taxonomy
type UnknownStyleError struct {
	Label string
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style: %q", e.Label)
}

// affinityTable maps each known style to the tags that historically co-occur
// with it. The requested style always gets weight 1.0; related tags get the
// decayed weights below. Loaded once at startup, read-only afterwards.
var affinityTable = map[string]map[string]float64{
	"scandinavian": {"minimalist": 0.3, "modern": 0.2, "rustic": 0.1},
	"modern":       {"minimalist": 0.3, "scandinavian": 0.2, "industrial": 0.2},
	"minimalist":   {"scandinavian": 0.3, "modern": 0.3},
	"industrial":   {"modern": 0.3, "rustic": 0.2},
	"bohemian":     {"rustic": 0.3, "scandinavian": 0.1},
	"rustic":       {"bohemian": 0.3, "industrial": 0.2, "scandinavian": 0.1},
}

// roomBias adds a small weight for tags that suit the room type regardless
// of the requested style (e.g. bedrooms lean softer)
var roomBias = map[models.RoomType]map[string]float64{
	models.RoomTypeBedroom:    {"scandinavian": 0.1},
	models.RoomTypeLivingRoom: {"modern": 0.1},
}

// Resolver maps user-facing style labels onto weighted catalog style tags.
// Safe for concurrent use: the taxonomy is never mutated after construction.
type Resolver struct {
	affinities map[string]map[string]float64
}

// NewResolver creates a resolver over the built-in style taxonomy
func NewResolver() *Resolver {
	return &Resolver{affinities: affinityTable}
}

// Known reports whether a style label is part of the taxonomy
func (r *Resolver) Known(label string) bool {
	_, ok := r.affinities[normalize(label)]
	return ok
}

// Resolve builds a StyleProfile for the given label and room type. The
// result is deterministic: same inputs always produce the same profile.
func (r *Resolver) Resolve(label string, roomType models.RoomType) (models.StyleProfile, error) {
	key := normalize(label)
	related, ok := r.affinities[key]
	if !ok {
		return nil, &UnknownStyleError{Label: label}
	}

	profile := models.StyleProfile{key: 1.0}
	for tag, weight := range related {
		profile[tag] = weight
	}

	for tag, bias := range roomBias[roomType] {
		if profile[tag]+bias <= 1.0 {
			profile[tag] += bias
		}
	}

	return profile, nil
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
