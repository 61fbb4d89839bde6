package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
)

func TestPassRepository_CreateDedupsUserListingPair(t *testing.T) {
	r := NewPassRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &domain.Pass{UserID: "alice", ListingID: "l1", OwnerUserID: "bob"}))
	require.NoError(t, r.Create(ctx, &domain.Pass{UserID: "alice", ListingID: "l1", OwnerUserID: "bob"}))
	require.NoError(t, r.Create(ctx, &domain.Pass{UserID: "alice", ListingID: "l2", OwnerUserID: "bob"}))
	require.NoError(t, r.Create(ctx, &domain.Pass{UserID: "carol", ListingID: "l1", OwnerUserID: "bob"}))

	ids, err := r.ListListingIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, ids)
}
