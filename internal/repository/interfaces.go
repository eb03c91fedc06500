package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcgill/roomstage/pkg/models"
)

// DesignRepository defines the interface for design data operations
type DesignRepository interface {
	Create(ctx context.Context, design *models.Design) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Design, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Design, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreLayout(ctx context.Context, layout *models.StoredLayout) error
	GetLayout(ctx context.Context, designID uuid.UUID) (*models.StoredLayout, error)
}

// CatalogRepository defines the read accessor over the furniture catalog.
// The design core requires the catalog fully loaded before any query;
// imports and updates belong to a separate ETL job, not this service.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]models.FurnitureItem, error)
}
