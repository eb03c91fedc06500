package design

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rmcgill/roomstage/internal/catalog"
	"github.com/rmcgill/roomstage/internal/planner"
	"github.com/rmcgill/roomstage/internal/style"
	"github.com/rmcgill/roomstage/internal/vision"
	"github.com/rmcgill/roomstage/pkg/models"
)

// MockDesignRepository implements repository.DesignRepository for testing
type MockDesignRepository struct {
	mock.Mock
}

func (m *MockDesignRepository) Create(ctx context.Context, design *models.Design) error {
	args := m.Called(ctx, design)
	return args.Error(0)
}

func (m *MockDesignRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Design), args.Error(1)
}

func (m *MockDesignRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Design, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*models.Design), args.Error(1)
}

func (m *MockDesignRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockDesignRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockDesignRepository) StoreLayout(ctx context.Context, layout *models.StoredLayout) error {
	args := m.Called(ctx, layout)
	return args.Error(0)
}

func (m *MockDesignRepository) GetLayout(ctx context.Context, designID uuid.UUID) (*models.StoredLayout, error) {
	args := m.Called(ctx, designID)
	return args.Get(0).(*models.StoredLayout), args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testIndex() *catalog.Index {
	return catalog.NewIndex([]models.FurnitureItem{
		{ID: "bed-1", Name: "MALM", Category: models.CategoryBed, StyleTags: []string{"scandinavian"}, Width: 2.0, Depth: 1.5, Height: 0.4, Price: 249},
		{ID: "wardrobe-1", Name: "PAX", Category: models.CategoryStorage, StyleTags: []string{"scandinavian"}, Width: 1.0, Depth: 0.6, Height: 2.0, Price: 150},
		{ID: "lamp-1", Name: "FADO", Category: models.CategoryLighting, StyleTags: []string{"scandinavian"}, Width: 0.3, Depth: 0.3, Height: 0.25, Price: 25},
	})
}

func newTestService(repo *MockDesignRepository, s3 *MockS3Service) SessionService {
	return NewSessionService(s3, repo, vision.NewAnalyzer(vision.DefaultConfig()), style.NewResolver(), testIndex(), planner.DefaultConfig())
}

// testRoomPhoto renders a synthetic empty-room photo: bright wall band over
// a darker floor band
func testRoomPhoto(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		shade := uint8(200)
		if y >= 120 {
			shade = 90
		}
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodePhoto(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestGenerateProducesLayout(t *testing.T) {
	svc := newTestService(&MockDesignRepository{}, &MockS3Service{})
	img := decodePhoto(t, testRoomPhoto(t))

	layout, room, err := svc.Generate(context.Background(), img, models.RoomTypeBedroom, "scandinavian")
	require.NoError(t, err)
	require.NotNil(t, layout)
	require.NotNil(t, room)

	assert.NotEmpty(t, layout.Items)
	assert.Greater(t, layout.Coverage, 0.0)
	assert.Equal(t, models.RoomTypeBedroom, room.RoomType, "caller-supplied type wins when detection is uncertain")
}

func TestGenerateUnknownStyleIsTerminal(t *testing.T) {
	svc := newTestService(&MockDesignRepository{}, &MockS3Service{})
	img := decodePhoto(t, testRoomPhoto(t))

	_, _, err := svc.Generate(context.Background(), img, models.RoomTypeBedroom, "cyberpunk")
	require.Error(t, err)

	var sessionErr *SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, "style", sessionErr.Stage)

	var styleErr *style.UnknownStyleError
	assert.True(t, errors.As(err, &styleErr))
}

func TestGenerateInvalidImageIsTerminal(t *testing.T) {
	svc := newTestService(&MockDesignRepository{}, &MockS3Service{})
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))

	_, _, err := svc.Generate(context.Background(), img, models.RoomTypeBedroom, "scandinavian")
	require.Error(t, err)

	var sessionErr *SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, "analyze", sessionErr.Stage)

	var analysisErr *vision.AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, vision.InvalidImage, analysisErr.Kind)
}

func TestProcessDesignCompletes(t *testing.T) {
	repo := &MockDesignRepository{}
	s3 := &MockS3Service{}
	svc := newTestService(repo, s3)

	designID := uuid.New()
	imageKey := fmt.Sprintf("test-room-%s.png", designID)
	require.NoError(t, os.WriteFile("/tmp/"+imageKey, testRoomPhoto(t), 0644))
	defer os.Remove("/tmp/" + imageKey)

	design := &models.Design{
		ID:         designID.String(),
		SessionID:  uuid.New().String(),
		RoomType:   string(models.RoomTypeBedroom),
		Style:      "scandinavian",
		Status:     "pending",
		ImageS3Key: &imageKey,
		CreatedAt:  time.Now(),
	}

	repo.On("UpdateStatus", mock.Anything, designID, "processing", mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, designID).Return(design, nil)
	repo.On("StoreLayout", mock.Anything, mock.MatchedBy(func(stored *models.StoredLayout) bool {
		return stored.DesignID == design.ID && len(stored.Layout.Items) > 0
	})).Return(nil)
	repo.On("UpdateStatus", mock.Anything, designID, "completed", 100).Return(nil)

	err := svc.ProcessDesign(context.Background(), designID)
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateStatus", mock.Anything, designID, "completed", 100)
	repo.AssertNotCalled(t, "UpdateError", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDesignUnknownStyleFailsDesign(t *testing.T) {
	repo := &MockDesignRepository{}
	s3 := &MockS3Service{}
	svc := newTestService(repo, s3)

	designID := uuid.New()
	imageKey := fmt.Sprintf("test-room-%s.png", designID)
	require.NoError(t, os.WriteFile("/tmp/"+imageKey, testRoomPhoto(t), 0644))
	defer os.Remove("/tmp/" + imageKey)

	design := &models.Design{
		ID:         designID.String(),
		RoomType:   string(models.RoomTypeBedroom),
		Style:      "cyberpunk",
		Status:     "pending",
		ImageS3Key: &imageKey,
	}

	repo.On("UpdateStatus", mock.Anything, designID, "processing", mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, designID).Return(design, nil)
	repo.On("UpdateError", mock.Anything, designID, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)

	err := svc.ProcessDesign(context.Background(), designID)
	require.NoError(t, err, "terminal generation failures mark the design failed, they do not error")

	repo.AssertCalled(t, "UpdateError", mock.Anything, designID, mock.Anything)
	repo.AssertNotCalled(t, "StoreLayout", mock.Anything, mock.Anything)
}

func TestProcessDesignMissingPhotoFailsDesign(t *testing.T) {
	repo := &MockDesignRepository{}
	s3 := &MockS3Service{}
	svc := newTestService(repo, s3)

	designID := uuid.New()
	missingKey := "test-room-does-not-exist.png"
	design := &models.Design{
		ID:         designID.String(),
		RoomType:   string(models.RoomTypeBedroom),
		Style:      "scandinavian",
		Status:     "pending",
		ImageS3Key: &missingKey,
	}

	repo.On("UpdateStatus", mock.Anything, designID, "processing", mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, designID).Return(design, nil)
	repo.On("UpdateError", mock.Anything, designID, mock.Anything).Return(nil)

	err := svc.ProcessDesign(context.Background(), designID)
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateError", mock.Anything, designID, mock.Anything)
}
