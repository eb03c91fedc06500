package vision

import (
	"fmt"
	"image"
	"sort"

	"github.com/rmcgill/roomstage/pkg/models"
)

// ErrorKind classifies analysis failures
type ErrorKind string

const (
	InvalidImage    ErrorKind = "invalid_image"
	NoFloorDetected ErrorKind = "no_floor_detected"
	LowConfidence   ErrorKind = "low_confidence"
)

// AnalysisError is a terminal analysis failure. The caller must not retry
// with the same image.
type AnalysisError struct {
	Kind   ErrorKind
	Reason string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("room analysis failed (%s): %s", e.Kind, e.Reason)
}

// Config holds the analyzer's policy constants
type Config struct {
	MinWidth              int
	MinHeight             int
	FloorConfidenceMin    float64 // below this the floor boundary is unusable
	RoomTypeConfidenceMin float64 // below this room type degrades to unknown
	RoomWidthMeters       float64 // assumed real-world width of the visible floor
	MinRegionMeters       float64 // free-space spans narrower than this are dropped
}

// DefaultConfig returns the analyzer defaults
func DefaultConfig() Config {
	return Config{
		MinWidth:              320,
		MinHeight:             240,
		FloorConfidenceMin:    0.15,
		RoomTypeConfidenceMin: 0.6,
		RoomWidthMeters:       4.0,
		MinRegionMeters:       0.5,
	}
}

// Analyzer turns a decoded room photo into a RoomDescriptor. It is a pure
// function over the image and safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer with the given policy constants
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze segments the image into a floor plane and free-space regions.
// Floor detection works on the luminance profile: the wall/floor boundary
// shows up as the strongest row-to-row brightness transition in the lower
// part of the frame. Obstacles are columns in the floor band that deviate
// strongly from the floor's median brightness.
func (a *Analyzer) Analyze(img image.Image) (*models.RoomDescriptor, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w < a.cfg.MinWidth || h < a.cfg.MinHeight {
		return nil, &AnalysisError{
			Kind:   InvalidImage,
			Reason: fmt.Sprintf("image %dx%d below minimum %dx%d", w, h, a.cfg.MinWidth, a.cfg.MinHeight),
		}
	}

	lum := luminanceGrid(img)
	gw, gh := len(lum[0]), len(lum)

	boundary, strength := floorBoundary(lum)
	if strength < 4.0 {
		return nil, &AnalysisError{
			Kind:   NoFloorDetected,
			Reason: "no wall/floor transition found in the lower image band",
		}
	}

	confidence := strength / 255.0
	if confidence < a.cfg.FloorConfidenceMin {
		return nil, &AnalysisError{
			Kind:   LowConfidence,
			Reason: fmt.Sprintf("floor boundary confidence %.2f below %.2f", confidence, a.cfg.FloorConfidenceMin),
		}
	}

	// Meters per grid column; the visible floor spans the full image width
	scale := a.cfg.RoomWidthMeters / float64(gw)
	floorRows := gh - boundary
	depth := float64(floorRows) * scale

	desc := &models.RoomDescriptor{
		Confidence: confidence,
		Scale:      a.cfg.RoomWidthMeters / float64(w),
		FloorPolygon: []models.Point{
			{X: 0, Y: 0},
			{X: a.cfg.RoomWidthMeters, Y: 0},
			{X: a.cfg.RoomWidthMeters, Y: depth},
			{X: 0, Y: depth},
		},
		FreeSpace: freeSpans(lum, boundary, scale, depth, a.cfg.MinRegionMeters),
	}

	desc.RoomType, desc.Confidence = a.classify(w, h, floorRows, gh, confidence)

	return desc, nil
}

// classify makes a coarse room-type guess. Monocular photos rarely carry
// enough signal, so anything under the threshold degrades to unknown and the
// caller-supplied room type wins.
func (a *Analyzer) classify(w, h, floorRows, gridRows int, floorConf float64) (models.RoomType, float64) {
	floorFraction := float64(floorRows) / float64(gridRows)
	conf := floorConf * floorFraction * 2
	if conf > 1 {
		conf = 1
	}
	if conf < a.cfg.RoomTypeConfidenceMin {
		return models.RoomTypeUnknown, conf
	}
	if float64(w)/float64(h) >= 1.4 {
		return models.RoomTypeLivingRoom, conf
	}
	return models.RoomTypeBedroom, conf
}

const gridMax = 256

// luminanceGrid samples the image into a downscaled grid of 0..255 values
func luminanceGrid(img image.Image) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	stride := 1
	if w > gridMax {
		stride = w / gridMax
	}
	if h/stride > gridMax {
		stride = h / gridMax
	}

	gw, gh := w/stride, h/stride
	grid := make([][]float64, gh)
	for gy := 0; gy < gh; gy++ {
		row := make([]float64, gw)
		for gx := 0; gx < gw; gx++ {
			r, g, b, _ := img.At(bounds.Min.X+gx*stride, bounds.Min.Y+gy*stride).RGBA()
			row[gx] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
		grid[gy] = row
	}
	return grid
}

// floorBoundary finds the grid row with the strongest row-to-row luminance
// transition within the lower band of the image, and the transition strength
func floorBoundary(lum [][]float64) (int, float64) {
	gh := len(lum)
	means := make([]float64, gh)
	for y, row := range lum {
		var sum float64
		for _, v := range row {
			sum += v
		}
		means[y] = sum / float64(len(row))
	}

	lo, hi := gh*3/10, gh*9/10
	best, bestDiff := 0, 0.0
	for y := lo; y < hi; y++ {
		diff := means[y] - means[y-1]
		if diff < 0 {
			diff = -diff
		}
		if diff > bestDiff {
			best, bestDiff = y, diff
		}
	}
	return best, bestDiff
}

// freeSpans splits the floor band into free-space rectangles. Columns whose
// mean luminance deviates far from the floor median are treated as obstacles
// (existing fixtures, dark doorways); the runs between them become regions.
func freeSpans(lum [][]float64, boundary int, scale, depth, minRegion float64) []models.Rect {
	gw := len(lum[0])
	gh := len(lum)

	colMeans := make([]float64, gw)
	for x := 0; x < gw; x++ {
		var sum float64
		for y := boundary; y < gh; y++ {
			sum += lum[y][x]
		}
		colMeans[x] = sum / float64(gh-boundary)
	}

	med := median(colMeans)
	const obstacleDelta = 40.0

	var regions []models.Rect
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		rect := models.Rect{
			X: float64(start) * scale,
			Y: 0,
			W: float64(end-start) * scale,
			H: depth,
		}
		if rect.W >= minRegion && rect.H >= minRegion {
			regions = append(regions, rect)
		}
		start = -1
	}

	for x := 0; x < gw; x++ {
		dev := colMeans[x] - med
		if dev < 0 {
			dev = -dev
		}
		if dev > obstacleDelta {
			flush(x)
			continue
		}
		if start < 0 {
			start = x
		}
	}
	flush(gw)

	return regions
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
