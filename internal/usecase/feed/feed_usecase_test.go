package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/prefstore"
	"github.com/mkazanov/swapcircle-backend/internal/repository/memory"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/preferences"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	uc        *FeedUseCase
	listings  *memory.ListingRepository
	interests *memory.InterestRepository
	passes    *memory.PassRepository
	prefs     *preferences.PreferencesUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := memory.NewListingRepository()
	interests := memory.NewInterestRepository()
	passes := memory.NewPassRepository()
	prefs := preferences.NewPreferencesUseCase(prefstore.NewMemoryKV())
	return &fixture{
		uc:        NewFeedUseCase(listings, interests, passes, prefs),
		listings:  listings,
		interests: interests,
		passes:    passes,
		prefs:     prefs,
	}
}

func (f *fixture) addListing(t *testing.T, l domain.Listing) {
	t.Helper()
	require.NoError(t, f.listings.Create(context.Background(), &l))
}

func listingIDs(out []*FeedListingResponse) []string {
	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.Listing.ID)
	}
	return ids
}

func TestGetNextListings_ExcludesOwnPassedAndInterested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addListing(t, domain.Listing{ID: "mine", OwnerID: "alice", Title: "camera", Category: "misc"})
	f.addListing(t, domain.Listing{ID: "passed", OwnerID: "bob", Title: "guitar", Category: "misc"})
	f.addListing(t, domain.Listing{ID: "wanted", OwnerID: "bob", Title: "amp", Category: "misc"})
	f.addListing(t, domain.Listing{ID: "fresh", OwnerID: "carol", Title: "bike", Category: "misc"})
	f.addListing(t, domain.Listing{
		ID: "archived", OwnerID: "carol", Title: "skis", Category: "misc",
		Status: domain.ListingStatusArchived,
	})

	require.NoError(t, f.passes.Create(ctx, &domain.Pass{UserID: "alice", ListingID: "passed", OwnerUserID: "bob"}))
	require.NoError(t, f.interests.Create(ctx, &domain.Interest{
		FromUserID: "alice", ToUserID: "bob", FromItemID: "mine", ToItemID: "wanted",
	}))

	out, err := f.uc.GetNextListings(ctx, "alice", nil, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, listingIDs(out))
}

func TestGetNextListings_AppliesPersistedFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addListing(t, domain.Listing{ID: "cheap", OwnerID: "bob", Title: "cable", Category: "electronics", EstimatedValue: 5})
	f.addListing(t, domain.Listing{ID: "mid", OwnerID: "bob", Title: "tablet", Category: "electronics", EstimatedValue: 150})
	f.addListing(t, domain.Listing{ID: "pricey", OwnerID: "bob", Title: "laptop", Category: "electronics", EstimatedValue: 900})
	f.addListing(t, domain.Listing{ID: "novel", OwnerID: "bob", Title: "novel", Category: "books", EstimatedValue: 150})

	f.prefs.UpdateFilters(ctx, "alice", domain.FilterPreferencesUpdate{
		Category: ptr("electronics"),
		MinValue: ptr(10.0),
		MaxValue: ptr(500.0),
	})

	out, err := f.uc.GetNextListings(ctx, "alice", nil, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, listingIDs(out))
}

func TestGetNextListings_DistanceFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Berlin center vs ~5km away vs Munich.
	f.addListing(t, domain.Listing{
		ID: "near", OwnerID: "bob", Title: "lamp", Category: "misc",
		LocationLat: ptr(52.5447), LocationLon: ptr(13.4050),
	})
	f.addListing(t, domain.Listing{
		ID: "far", OwnerID: "bob", Title: "desk", Category: "misc",
		LocationLat: ptr(48.1351), LocationLon: ptr(11.5820),
	})
	f.addListing(t, domain.Listing{ID: "nowhere", OwnerID: "bob", Title: "chair", Category: "misc"})

	f.prefs.UpdateFilters(ctx, "alice", domain.FilterPreferencesUpdate{MaxDistanceKm: ptr(50.0)})

	out, err := f.uc.GetNextListings(ctx, "alice", ptr(52.5200), ptr(13.4050), 10)
	require.NoError(t, err)

	// Listings without coordinates are not distance-filtered.
	assert.ElementsMatch(t, []string{"near", "nowhere"}, listingIDs(out))

	for _, r := range out {
		if r.Listing.ID == "near" {
			require.NotNil(t, r.DistanceKm)
			assert.InDelta(t, 2.7, *r.DistanceKm, 0.5)
		}
	}
}

func TestGetNextListings_PagesPastFilteredOutBatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Fill more than one candidate batch with non-matching listings before
	// the matching ones.
	for i := 0; i < candidateBatchSize+10; i++ {
		f.addListing(t, domain.Listing{
			ID: fmt.Sprintf("book-%03d", i), OwnerID: "bob", Title: "novel", Category: "books",
		})
	}
	f.addListing(t, domain.Listing{ID: "tv", OwnerID: "bob", Title: "tv", Category: "electronics"})
	f.addListing(t, domain.Listing{ID: "phone", OwnerID: "bob", Title: "phone", Category: "electronics"})

	f.prefs.UpdateFilters(ctx, "alice", domain.FilterPreferencesUpdate{Category: ptr("electronics")})

	out, err := f.uc.GetNextListings(ctx, "alice", nil, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"tv", "phone"}, listingIDs(out))
}

func TestGetNextListings_RespectsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"l1", "l2", "l3"} {
		f.addListing(t, domain.Listing{ID: id, OwnerID: "bob", Title: id, Category: "misc"})
	}

	out, err := f.uc.GetNextListings(ctx, "alice", nil, nil, 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
