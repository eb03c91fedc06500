package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rmcgill/roomstage/internal/design"
	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/internal/storage"
	"github.com/rmcgill/roomstage/internal/style"
	"github.com/rmcgill/roomstage/pkg/models"
)

// DesignHandler handles design-related HTTP requests
type DesignHandler struct {
	repo       repository.DesignRepository
	s3Service  storage.S3Service
	sessionSvc design.SessionService
	styles     *style.Resolver
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(repo repository.DesignRepository, s3Service storage.S3Service, sessionSvc design.SessionService, styles *style.Resolver) *DesignHandler {
	return &DesignHandler{
		repo:       repo,
		s3Service:  s3Service,
		sessionSvc: sessionSvc,
		styles:     styles,
	}
}

// CreateDesign creates a new design and returns an upload URL for the room photo
func (h *DesignHandler) CreateDesign(ctx context.Context, req *models.CreateDesignRequest) (*models.CreateDesignResponse, error) {
	log.Info().
		Str("sessionID", req.Body.SessionID).
		Str("roomType", req.Body.RoomType).
		Str("style", req.Body.Style).
		Msg("Creating new design")

	// Reject unknown styles up front so the user never waits on a doomed
	// generation
	if !h.styles.Known(req.Body.Style) {
		return nil, huma.Error400BadRequest(
			fmt.Sprintf("Style %q is not recognized.", req.Body.Style), nil)
	}

	designID := uuid.New()
	imageKey := fmt.Sprintf("rooms/%s.image", designID)

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, imageKey, req.Body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Photo format not supported. Please upload a JPEG or PNG.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	d := &models.Design{
		ID:         designID.String(),
		SessionID:  req.Body.SessionID,
		RoomType:   req.Body.RoomType,
		Style:      req.Body.Style,
		Status:     "pending",
		Progress:   0,
		ImageS3Key: &imageKey,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.repo.Create(ctx, d); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create design", err)
	}

	log.Info().Str("designID", d.ID).Msg("Design created, returning upload URL")
	return &models.CreateDesignResponse{
		Body: models.CreateDesignResponseBody{
			ID:        d.ID,
			UploadURL: uploadURL,
			ExpiresIn: int((15 * time.Minute).Seconds()),
		},
	}, nil
}

// StartGeneration starts layout generation for an uploaded room photo
func (h *DesignHandler) StartGeneration(ctx context.Context, req *models.StartGenerationRequest) (*models.StartGenerationResponse, error) {
	designID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid design ID", err)
	}

	if _, err := h.repo.GetByID(ctx, designID); err != nil {
		return nil, huma.Error404NotFound("Design not found", err)
	}

	log.Info().Str("designID", designID.String()).Msg("Starting background generation")
	go func() {
		if err := h.sessionSvc.ProcessDesign(context.Background(), designID); err != nil {
			h.repo.UpdateError(context.Background(), designID, fmt.Sprintf("Generation failed: %v", err))
		}
	}()

	resp := &models.StartGenerationResponse{}
	resp.Body.Message = "Generation started successfully"
	return resp, nil
}

// GetDesignStatus returns the current status of a design
func (h *DesignHandler) GetDesignStatus(ctx context.Context, req *models.GetDesignStatusRequest) (*models.GetDesignStatusResponse, error) {
	designID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid design ID", err)
	}

	d, err := h.repo.GetByID(ctx, designID)
	if err != nil {
		return nil, huma.Error404NotFound("Design not found", err)
	}

	message := h.generateStatusMessage(d.Status, d.Progress)
	if d.Status == "failed" && d.ErrorMsg != nil {
		message = *d.ErrorMsg
	}

	return &models.GetDesignStatusResponse{
		Body: models.GetDesignStatusResponseBody{
			ID:       d.ID,
			Status:   d.Status,
			Progress: d.Progress,
			Message:  message,
		},
	}, nil
}

// GetDesignLayout returns the generated layout for a completed design
func (h *DesignHandler) GetDesignLayout(ctx context.Context, req *models.GetDesignLayoutRequest) (*models.GetDesignLayoutResponse, error) {
	designID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid design ID", err)
	}

	d, err := h.repo.GetByID(ctx, designID)
	if err != nil {
		return nil, huma.Error404NotFound("Design not found", err)
	}

	if d.Status != "completed" {
		return nil, huma.Error409Conflict("Design not yet completed",
			fmt.Errorf("design status is %s", d.Status))
	}

	stored, err := h.repo.GetLayout(ctx, designID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get layout", err)
	}

	return &models.GetDesignLayoutResponse{
		Body: models.GetDesignLayoutResponseBody{
			ID:        stored.ID,
			DesignID:  stored.DesignID,
			Layout:    stored.Layout,
			Room:      stored.Room,
			CreatedAt: stored.CreatedAt,
		},
	}, nil
}

// ListDesigns returns a session's designs, newest first
func (h *DesignHandler) ListDesigns(ctx context.Context, req *models.ListDesignsRequest) (*models.ListDesignsResponse, error) {
	designs, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list designs", err)
	}

	resp := &models.ListDesignsResponse{}
	resp.Body.Designs = make([]models.Design, 0, len(designs))
	for _, d := range designs {
		resp.Body.Designs = append(resp.Body.Designs, *d)
	}
	return resp, nil
}

// generateStatusMessage creates a human-readable status message
func (h *DesignHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Design queued for generation..."
	case "processing":
		if progress < 25 {
			return "Starting generation..."
		} else if progress < 50 {
			return "Analyzing room photo..."
		} else if progress < 80 {
			return "Placing furniture..."
		}
		return "Finalizing layout..."
	case "completed":
		return "Design complete!"
	case "failed":
		return "Generation failed. Please try again."
	default:
		return "Unknown status"
	}
}
