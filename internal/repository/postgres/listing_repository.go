package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

// listingRow mirrors the listings table; image_urls needs pq.StringArray.
type listingRow struct {
	domain.Listing
	ImageURLs pq.StringArray `db:"image_urls"`
}

func (row *listingRow) toDomain() *domain.Listing {
	l := row.Listing
	l.ImageURLs = []string(row.ImageURLs)
	return &l
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.Status == "" {
		listing.Status = domain.ListingStatusActive
	}
	query := `
		INSERT INTO listings (
			id, owner_id, title, description, category, estimated_value,
			status, image_urls, location_lat, location_lon
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		listing.ID, listing.OwnerID, listing.Title, listing.Description,
		listing.Category, listing.EstimatedValue, listing.Status,
		pq.Array(listing.ImageURLs), listing.LocationLat, listing.LocationLon,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var row listingRow
	query := `SELECT * FROM listings WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *listingRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Listing, error) {
	var rows []*listingRow
	query := `
		SELECT * FROM listings
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &rows, query, domain.ListingStatusActive, limit, offset)
	if err != nil {
		return nil, err
	}
	listings := make([]*domain.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toDomain())
	}
	return listings, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	var rows []*listingRow
	query := `SELECT * FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &rows, query, ownerID)
	if err != nil {
		return nil, err
	}
	listings := make([]*domain.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toDomain())
	}
	return listings, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	query := `UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
