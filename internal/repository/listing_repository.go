package repository

import (
	"context"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	ListActive(ctx context.Context, limit, offset int) ([]*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}
