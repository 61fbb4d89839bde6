package feed

import (
	"context"
	"fmt"
	"math"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/preferences"
)

const candidateBatchSize = 100

type FeedUseCase struct {
	listingRepo  repository.ListingRepository
	interestRepo repository.InterestRepository
	passRepo     repository.PassRepository
	prefs        *preferences.PreferencesUseCase
}

func NewFeedUseCase(
	listingRepo repository.ListingRepository,
	interestRepo repository.InterestRepository,
	passRepo repository.PassRepository,
	prefs *preferences.PreferencesUseCase,
) *FeedUseCase {
	return &FeedUseCase{
		listingRepo:  listingRepo,
		interestRepo: interestRepo,
		passRepo:     passRepo,
		prefs:        prefs,
	}
}

// FeedListingResponse is a feed candidate with its distance, when both
// sides have a location.
type FeedListingResponse struct {
	Listing    domain.ListingSummary `json:"listing"`
	OwnerID    string                `json:"owner_id"`
	Category   string                `json:"category"`
	DistanceKm *float64              `json:"distance_km,omitempty"`
}

// GetNextListings returns up to limit active listings for the user's feed,
// excluding the user's own listings, listings they passed on, and listings
// they already expressed interest in, filtered by their persisted
// preferences.
func (uc *FeedUseCase) GetNextListings(ctx context.Context, userID string, lat, lon *float64, limit int) ([]*FeedListingResponse, error) {
	if limit <= 0 {
		limit = 1
	}

	filters := uc.prefs.Filters(ctx, userID)

	passed, err := uc.passRepo.ListListingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load passes: %w", err)
	}
	interested, err := uc.interestRepo.ListTargetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}

	excluded := make(map[string]bool, len(passed)+len(interested))
	for _, id := range passed {
		excluded[id] = true
	}
	for _, id := range interested {
		excluded[id] = true
	}

	// Selective filters can reject whole batches, so keep paging through the
	// active listings until the limit is filled or candidates run out.
	var out []*FeedListingResponse
	for offset := 0; ; offset += candidateBatchSize {
		candidates, err := uc.listingRepo.ListActive(ctx, candidateBatchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list active listings: %w", err)
		}
		if len(candidates) == 0 {
			return out, nil
		}

		for _, candidate := range candidates {
			if candidate.OwnerID == userID || excluded[candidate.ID] {
				continue
			}
			if filters.Category != "" && candidate.Category != filters.Category {
				continue
			}
			if filters.MinValue != nil && candidate.EstimatedValue < *filters.MinValue {
				continue
			}
			if filters.MaxValue != nil && candidate.EstimatedValue > *filters.MaxValue {
				continue
			}

			var distanceKm *float64
			if lat != nil && lon != nil && candidate.LocationLat != nil && candidate.LocationLon != nil {
				d := haversineKm(*lat, *lon, *candidate.LocationLat, *candidate.LocationLon)
				if filters.MaxDistanceKm != nil && d > *filters.MaxDistanceKm {
					continue
				}
				distanceKm = &d
			}

			out = append(out, &FeedListingResponse{
				Listing:    candidate.Summary(),
				OwnerID:    candidate.OwnerID,
				Category:   candidate.Category,
				DistanceKm: distanceKm,
			})
			if len(out) >= limit {
				return out, nil
			}
		}

		if len(candidates) < candidateBatchSize {
			return out, nil
		}
	}
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
