package vision

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/rmcgill/roomstage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roomImage paints a synthetic room photo: a wall band above floorY and a
// floor band below it
func roomImage(w, h, floorY int, wall, floor uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		shade := wall
		if y >= floorY {
			shade = floor
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img
}

func TestAnalyzeDetectsFloor(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 120, 200, 90)

	desc, err := a.Analyze(img)
	require.NoError(t, err)

	require.Len(t, desc.FreeSpace, 1)
	region := desc.FreeSpace[0]
	assert.InDelta(t, 4.0, region.W, 0.1, "floor spans the assumed room width")
	assert.Greater(t, region.H, 0.0)
	assert.Len(t, desc.FloorPolygon, 4)
	assert.Greater(t, desc.Confidence, 0.0)
}

func TestAnalyzeRejectsSmallImage(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(100, 80, 40, 200, 90)

	_, err := a.Analyze(img)
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, InvalidImage, analysisErr.Kind)
}

func TestAnalyzeFeaturelessImage(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 0, 128, 128) // uniform, no transition

	_, err := a.Analyze(img)
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, NoFloorDetected, analysisErr.Kind)
}

func TestAnalyzeWeakBoundaryIsLowConfidence(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 120, 130, 100)

	_, err := a.Analyze(img)
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, LowConfidence, analysisErr.Kind)
}

func TestAnalyzeObstacleSplitsFreeSpace(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 120, 200, 90)

	// A dark fixture standing on the floor
	for y := 120; y < 300; y++ {
		for x := 180; x < 220; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 10, B: 10, A: 255})
		}
	}

	desc, err := a.Analyze(img)
	require.NoError(t, err)

	require.Len(t, desc.FreeSpace, 2, "obstacle splits the floor into two regions")
	assert.Less(t, desc.FreeSpace[0].X+desc.FreeSpace[0].W, desc.FreeSpace[1].X+0.01,
		"regions are disjoint and ordered left to right")
}

func TestAnalyzeUncertainRoomTypeIsUnknown(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 120, 200, 90)

	desc, err := a.Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeUnknown, desc.RoomType)
}

func TestAnalyzeConfidentWideRoomIsLivingRoom(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(480, 300, 95, 230, 60)

	desc, err := a.Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeLivingRoom, desc.RoomType)
	assert.GreaterOrEqual(t, desc.Confidence, 0.6)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := roomImage(400, 300, 120, 200, 90)

	first, err := a.Analyze(img)
	require.NoError(t, err)
	second, err := a.Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
