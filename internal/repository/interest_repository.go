package repository

import (
	"context"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
)

type InterestRepository interface {
	// Create appends to the ledger. Interests are never updated or deleted.
	Create(ctx context.Context, interest *domain.Interest) error
	// GetExact returns the interest with the same four identifiers, if any.
	GetExact(ctx context.Context, fromUserID, toUserID, fromItemID, toItemID string) (*domain.Interest, error)
	// ListFromTo returns all interests from one user to another in ledger
	// order (oldest first).
	ListFromTo(ctx context.Context, fromUserID, toUserID string) ([]*domain.Interest, error)
	// ExistsForItem reports whether the user has ever expressed interest in
	// the given listing.
	ExistsForItem(ctx context.Context, fromUserID, toItemID string) (bool, error)
	// ListTargetItems returns the listing IDs the user has expressed
	// interest in.
	ListTargetItems(ctx context.Context, fromUserID string) ([]string, error)
}

type PassRepository interface {
	Create(ctx context.Context, pass *domain.Pass) error
	ListListingIDs(ctx context.Context, userID string) ([]string, error)
	DeleteByUser(ctx context.Context, userID string) error
}
