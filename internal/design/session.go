package design

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rmcgill/roomstage/internal/catalog"
	"github.com/rmcgill/roomstage/internal/metrics"
	"github.com/rmcgill/roomstage/internal/planner"
	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/internal/storage"
	"github.com/rmcgill/roomstage/internal/style"
	"github.com/rmcgill/roomstage/internal/vision"
	"github.com/rmcgill/roomstage/pkg/models"
)

// SessionError wraps the first unrecoverable failure of a generation
// request with the pipeline stage it came from. Catalog and placement
// shortfalls never produce a SessionError; they degrade the layout instead.
type SessionError struct {
	Stage string
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("design session failed at %s: %v", e.Stage, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// SessionService runs design generation requests
type SessionService interface {
	// Generate is the synchronous core call: analyze the room photo,
	// resolve the style, and plan a layout. Stateless across calls.
	Generate(ctx context.Context, img image.Image, roomType models.RoomType, styleLabel string) (*models.Layout, *models.RoomDescriptor, error)
	// ProcessDesign drives one persisted design through the full pipeline
	ProcessDesign(ctx context.Context, designID uuid.UUID) error
}

type sessionService struct {
	s3       storage.S3Service
	repo     repository.DesignRepository
	analyzer *vision.Analyzer
	styles   *style.Resolver
	planner  *planner.Planner
}

// NewSessionService creates a design session service. The catalog index and
// style taxonomy are shared read-only state; no locking is needed because
// nothing mutates them after startup.
func NewSessionService(s3Service storage.S3Service, repo repository.DesignRepository, analyzer *vision.Analyzer, styles *style.Resolver, index *catalog.Index, plannerCfg planner.Config) SessionService {
	return &sessionService{
		s3:       s3Service,
		repo:     repo,
		analyzer: analyzer,
		styles:   styles,
		planner:  planner.New(index, plannerCfg),
	}
}

// Generate runs the pure pipeline: Room Analyzer, Style Resolver, Layout
// Planner. A degenerate zero-item layout is a valid result, not an error.
func (s *sessionService) Generate(ctx context.Context, img image.Image, roomType models.RoomType, styleLabel string) (*models.Layout, *models.RoomDescriptor, error) {
	start := time.Now()

	room, err := s.analyzer.Analyze(img)
	if err != nil {
		metrics.DesignsFailed.WithLabelValues("analyze").Inc()
		return nil, nil, &SessionError{Stage: "analyze", Err: err}
	}

	// Low-confidence detection defers to the caller-supplied room type
	if room.RoomType == models.RoomTypeUnknown && roomType != "" {
		room.RoomType = roomType
	}

	profile, err := s.styles.Resolve(styleLabel, room.RoomType)
	if err != nil {
		metrics.DesignsFailed.WithLabelValues("style").Inc()
		return nil, nil, &SessionError{Stage: "style", Err: err}
	}

	layout := s.planner.Plan(room, profile)

	metrics.DesignsGenerated.WithLabelValues(string(room.RoomType), styleLabel).Inc()
	metrics.GenerationDuration.WithLabelValues(string(room.RoomType)).Observe(time.Since(start).Seconds())
	metrics.LayoutCoverage.Observe(layout.Coverage)

	return layout, room, nil
}

// ProcessDesign downloads the uploaded room photo, runs generation, and
// persists the resulting layout, updating status/progress along the way.
// Terminal failures mark the design failed and return nil; only
// infrastructure errors propagate.
func (s *sessionService) ProcessDesign(ctx context.Context, designID uuid.UUID) error {
	if err := s.repo.UpdateStatus(ctx, designID, "processing", 10); err != nil {
		return err
	}

	design, err := s.repo.GetByID(ctx, designID)
	if err != nil {
		return err
	}

	if design.ImageS3Key == nil {
		s.repo.UpdateError(ctx, designID, "No room photo uploaded")
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, designID, "processing", 25); err != nil {
		return err
	}

	// For testing: keys with the "test-" prefix are read from /tmp instead
	// of object storage
	var imageData []byte
	if strings.HasPrefix(*design.ImageS3Key, "test-") {
		imageData, err = os.ReadFile("/tmp/" + *design.ImageS3Key)
	} else {
		imageData, err = s.s3.DownloadFile(ctx, *design.ImageS3Key)
	}
	if err != nil {
		s.repo.UpdateError(ctx, designID, "Failed to download room photo")
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.repo.UpdateError(ctx, designID, "Room photo could not be decoded")
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, designID, "processing", 50); err != nil {
		return err
	}

	layout, room, err := s.Generate(ctx, img, models.RoomType(design.RoomType), design.Style)
	if err != nil {
		log.Warn().Err(err).Str("designID", designID.String()).Msg("Generation failed")
		s.repo.UpdateError(ctx, designID, userMessage(err))
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, designID, "processing", 80); err != nil {
		return err
	}

	stored := &models.StoredLayout{
		ID:        uuid.New().String(),
		DesignID:  design.ID,
		Layout:    *layout,
		Room:      *room,
		CreatedAt: time.Now(),
	}
	if err := s.repo.StoreLayout(ctx, stored); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, designID, "completed", 100); err != nil {
		return err
	}

	log.Info().
		Str("designID", designID.String()).
		Int("items", len(layout.Items)).
		Float64("coverage", layout.Coverage).
		Float64("score", layout.Score).
		Msg("Design generation completed")

	return nil
}

// userMessage translates terminal pipeline errors into text safe to show
// the end user
func userMessage(err error) string {
	var analysisErr *vision.AnalysisError
	if errors.As(err, &analysisErr) {
		switch analysisErr.Kind {
		case vision.InvalidImage:
			return "The uploaded photo is too small or not a supported image."
		case vision.NoFloorDetected:
			return "Could not detect a floor in the photo. Please upload a photo of an empty room."
		default:
			return "The photo could not be analyzed reliably. Please try a clearer photo."
		}
	}

	var styleErr *style.UnknownStyleError
	if errors.As(err, &styleErr) {
		return fmt.Sprintf("Style %q is not recognized.", styleErr.Label)
	}

	return "Design generation failed. Please try again."
}
