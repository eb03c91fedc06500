package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/pkg/models"
)

// PostgresCatalogRepository implements CatalogRepository for PostgreSQL
type PostgresCatalogRepository struct {
	db *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgreSQL catalog repository
func NewPostgresCatalogRepository(db *sql.DB) repository.CatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// ListAll returns every furniture record in the catalog. Called once at
// startup to build the in-memory index; never during request handling.
func (r *PostgresCatalogRepository) ListAll(ctx context.Context) ([]models.FurnitureItem, error) {
	query := `
		SELECT id, name, category, style_tags, width, depth, height, price, image_ref, product_url
		FROM furniture
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.FurnitureItem
	for rows.Next() {
		var item models.FurnitureItem
		var imageRef, productURL sql.NullString

		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			pq.Array(&item.StyleTags),
			&item.Width,
			&item.Depth,
			&item.Height,
			&item.Price,
			&imageRef,
			&productURL)

		if err != nil {
			return nil, err
		}

		if imageRef.Valid {
			item.ImageRef = imageRef.String
		}
		if productURL.Valid {
			item.ProductURL = productURL.String
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
