package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/pkg/models"
)

// PostgresDesignRepository implements DesignRepository for PostgreSQL
type PostgresDesignRepository struct {
	db *sql.DB
}

// NewPostgresDesignRepository creates a new PostgreSQL design repository
func NewPostgresDesignRepository(db *sql.DB) repository.DesignRepository {
	return &PostgresDesignRepository{db: db}
}

// Create inserts a new design record
func (r *PostgresDesignRepository) Create(ctx context.Context, design *models.Design) error {
	query := `
		INSERT INTO designs (id, session_id, room_type, style, status, progress, image_s3_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		design.ID,
		design.SessionID,
		design.RoomType,
		design.Style,
		design.Status,
		design.Progress,
		design.ImageS3Key,
		design.CreatedAt,
		design.UpdatedAt)

	return err
}

// GetByID retrieves a design by ID
func (r *PostgresDesignRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	query := `
		SELECT id, session_id, room_type, style, status, progress, image_s3_key, error_message, created_at, updated_at, completed_at
		FROM designs
		WHERE id = $1`

	return scanDesign(r.db.QueryRowContext(ctx, query, id))
}

// GetBySessionID retrieves designs by session ID, newest first
func (r *PostgresDesignRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Design, error) {
	query := `
		SELECT id, session_id, room_type, style, status, progress, image_s3_key, error_message, created_at, updated_at, completed_at
		FROM designs
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*models.Design
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
	}

	return designs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDesign(row rowScanner) (*models.Design, error) {
	var design models.Design
	var imageS3Key, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&design.ID,
		&design.SessionID,
		&design.RoomType,
		&design.Style,
		&design.Status,
		&design.Progress,
		&imageS3Key,
		&errorMsg,
		&design.CreatedAt,
		&design.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if imageS3Key.Valid {
		design.ImageS3Key = &imageS3Key.String
	}
	if errorMsg.Valid {
		design.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		design.CompletedAt = &completedAt.Time
	}

	return &design, nil
}

// UpdateStatus updates the status and progress of a design
func (r *PostgresDesignRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE designs
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError updates the error message for a design
func (r *PostgresDesignRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE designs
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreLayout stores a generated layout
func (r *PostgresDesignRepository) StoreLayout(ctx context.Context, layout *models.StoredLayout) error {
	layoutJSON, err := json.Marshal(layout.Layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	roomJSON, err := json.Marshal(layout.Room)
	if err != nil {
		return fmt.Errorf("failed to marshal room descriptor: %w", err)
	}

	query := `
		INSERT INTO design_layouts (id, design_id, layout, room, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query,
		layout.ID,
		layout.DesignID,
		string(layoutJSON),
		string(roomJSON),
		layout.CreatedAt)

	return err
}

// GetLayout retrieves a generated layout by design ID
func (r *PostgresDesignRepository) GetLayout(ctx context.Context, designID uuid.UUID) (*models.StoredLayout, error) {
	query := `
		SELECT id, design_id, layout, room, created_at
		FROM design_layouts
		WHERE design_id = $1`

	var stored models.StoredLayout
	var layoutStr, roomStr string

	err := r.db.QueryRowContext(ctx, query, designID).Scan(
		&stored.ID,
		&stored.DesignID,
		&layoutStr,
		&roomStr,
		&stored.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(layoutStr), &stored.Layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}
	if err := json.Unmarshal([]byte(roomStr), &stored.Room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room descriptor: %w", err)
	}

	return &stored, nil
}
