package listing

import (
	"context"
	"fmt"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{listingRepo: listingRepo}
}

// CreateListingRequest represents a new listing
type CreateListingRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    *string  `json:"description"`
	Category       string   `json:"category" binding:"required"`
	EstimatedValue float64  `json:"estimated_value" binding:"required,gt=0"`
	ImageURLs      []string `json:"image_urls"`
	LocationLat    *float64 `json:"location_lat"`
	LocationLon    *float64 `json:"location_lon"`
}

func (uc *ListingUseCase) Create(ctx context.Context, ownerID string, req *CreateListingRequest) (*domain.Listing, error) {
	listing := &domain.Listing{
		OwnerID:        ownerID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedValue: req.EstimatedValue,
		Status:         domain.ListingStatusActive,
		ImageURLs:      req.ImageURLs,
		LocationLat:    req.LocationLat,
		LocationLon:    req.LocationLon,
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) ListMine(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return uc.listingRepo.ListByOwner(ctx, ownerID)
}

// Archive hides a listing from the feed. Only the owner may archive.
func (uc *ListingUseCase) Archive(ctx context.Context, actingUserID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actingUserID {
		return domain.ErrNotAuthorized
	}
	return uc.listingRepo.UpdateStatus(ctx, id, domain.ListingStatusArchived)
}
