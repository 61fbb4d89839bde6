package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type passRepository struct {
	db *sqlx.DB
}

func NewPassRepository(db *sqlx.DB) repository.PassRepository {
	return &passRepository{db: db}
}

func (r *passRepository) Create(ctx context.Context, pass *domain.Pass) error {
	if pass.ID == "" {
		pass.ID = uuid.NewString()
	}
	// ON CONFLICT keeps passing the same listing twice harmless.
	query := `
		INSERT INTO passes (id, user_id, listing_id, owner_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, pass.ID, pass.UserID, pass.ListingID, pass.OwnerUserID)
	return err
}

func (r *passRepository) ListListingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT listing_id FROM passes WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *passRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM passes WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
