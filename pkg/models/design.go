package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateDesignRequest represents a request to create a new design
type CreateDesignRequest struct {
	Body struct {
		SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		FileSize  int64  `json:"file_size" minimum:"1000" maximum:"20971520" required:"true" doc:"Room photo size in bytes"`
		MimeType  string `json:"mime_type" enum:"image/jpeg,image/png" required:"true" doc:"Room photo MIME type"`
		RoomType  string `json:"room_type" enum:"living_room,bedroom" required:"true" doc:"Room type to furnish"`
		Style     string `json:"style" minLength:"3" maxLength:"40" required:"true" doc:"Design style label (e.g. 'scandinavian')"`
	}
}

// CreateDesignResponseBody is the body of the create design response
type CreateDesignResponseBody struct {
	ID        string `json:"id" doc:"Design unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for photo upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateDesignResponse represents the response from creating a design
type CreateDesignResponse struct {
	Body CreateDesignResponseBody
}

// GetDesignStatusRequest represents a request to get design status
type GetDesignStatusRequest struct {
	ID string `path:"id" doc:"Design ID"`
}

// GetDesignStatusResponseBody is the body of the status response
type GetDesignStatusResponseBody struct {
	ID       string `json:"id" doc:"Design ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Design status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Generation progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetDesignStatusResponse represents the current status of a design
type GetDesignStatusResponse struct {
	Body GetDesignStatusResponseBody
}

// GetDesignLayoutRequest represents a request to get a generated layout
type GetDesignLayoutRequest struct {
	ID string `path:"id" doc:"Design ID"`
}

// GetDesignLayoutResponseBody is the body of the layout response
type GetDesignLayoutResponseBody struct {
	ID        string         `json:"id" doc:"Layout ID"`
	DesignID  string         `json:"design_id" doc:"Design ID"`
	Layout    Layout         `json:"layout" doc:"Generated furniture layout"`
	Room      RoomDescriptor `json:"room" doc:"Analyzed room geometry"`
	CreatedAt time.Time      `json:"created_at" doc:"Layout creation timestamp"`
}

// GetDesignLayoutResponse represents the generated layout for a design
type GetDesignLayoutResponse struct {
	Body GetDesignLayoutResponseBody
}

// StartGenerationRequest represents a request to start layout generation
type StartGenerationRequest struct {
	ID string `path:"id" doc:"Design ID"`
}

// StartGenerationResponse represents the response from starting generation
type StartGenerationResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// ListDesignsRequest represents a request to list a session's designs
type ListDesignsRequest struct {
	SessionID string `query:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
}

// ListDesignsResponse represents the gallery of a session's designs
type ListDesignsResponse struct {
	Body struct {
		Designs []Design `json:"designs" doc:"Designs ordered newest first"`
	}
}

// Design represents the core design entity (for internal use)
type Design struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	RoomType    string     `json:"room_type"`
	Style       string     `json:"style"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	ImageS3Key  *string    `json:"image_s3_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StoredLayout represents a persisted generation result
type StoredLayout struct {
	ID        string         `json:"id"`
	DesignID  string         `json:"design_id"`
	Layout    Layout         `json:"layout"`
	Room      RoomDescriptor `json:"room"`
	CreatedAt time.Time      `json:"created_at"`
}
