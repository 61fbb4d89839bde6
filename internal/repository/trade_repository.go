package repository

import (
	"context"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *domain.TradeOpportunity) error
	GetByID(ctx context.Context, id string) (*domain.TradeOpportunity, error)
	// GetByItems looks up an opportunity covering the unordered item pair.
	GetByItems(ctx context.Context, itemA, itemB string) (*domain.TradeOpportunity, error)
	// ListByUser returns all opportunities the user is a party to,
	// most recent first.
	ListByUser(ctx context.Context, userID string) ([]*domain.TradeOpportunity, error)
	UpdateStatus(ctx context.Context, id string, status domain.TradeStatus) error
	UpdatePitch(ctx context.Context, id string, pitch string) error
}
