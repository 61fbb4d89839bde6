package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type interestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) repository.InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	if interest.ID == "" {
		interest.ID = uuid.NewString()
	}
	query := `
		INSERT INTO interests (id, from_user_id, to_user_id, from_item_id, to_item_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		interest.ID, interest.FromUserID, interest.ToUserID,
		interest.FromItemID, interest.ToItemID,
	).Scan(&interest.CreatedAt)
}

func (r *interestRepository) GetExact(ctx context.Context, fromUserID, toUserID, fromItemID, toItemID string) (*domain.Interest, error) {
	var interests []*domain.Interest
	query := `
		SELECT * FROM interests
		WHERE from_user_id = $1 AND to_user_id = $2
		  AND from_item_id = $3 AND to_item_id = $4
		LIMIT 1
	`
	err := r.db.SelectContext(ctx, &interests, query, fromUserID, toUserID, fromItemID, toItemID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return nil, nil
	}
	return interests[0], nil
}

func (r *interestRepository) ListFromTo(ctx context.Context, fromUserID, toUserID string) ([]*domain.Interest, error) {
	var interests []*domain.Interest
	query := `
		SELECT * FROM interests
		WHERE from_user_id = $1 AND to_user_id = $2
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &interests, query, fromUserID, toUserID)
	return interests, err
}

func (r *interestRepository) ExistsForItem(ctx context.Context, fromUserID, toItemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM interests WHERE from_user_id = $1 AND to_item_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, fromUserID, toItemID)
	return exists, err
}

func (r *interestRepository) ListTargetItems(ctx context.Context, fromUserID string) ([]string, error) {
	var items []string
	query := `SELECT DISTINCT to_item_id FROM interests WHERE from_user_id = $1`
	err := r.db.SelectContext(ctx, &items, query, fromUserID)
	return items, err
}
