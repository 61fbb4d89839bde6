package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository/memory"
)

type fixture struct {
	uc       *MatchingUseCase
	listings *memory.ListingRepository
	trades   *memory.TradeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := memory.NewListingRepository()
	trades := memory.NewTradeRepository()
	return &fixture{
		uc: NewMatchingUseCase(
			memory.NewInterestRepository(),
			trades,
			memory.NewPassRepository(),
			listings,
			nil,
		),
		listings: listings,
		trades:   trades,
	}
}

func (f *fixture) addListing(t *testing.T, id, ownerID, title string) {
	t.Helper()
	err := f.listings.Create(context.Background(), &domain.Listing{
		ID:       id,
		OwnerID:  ownerID,
		Title:    title,
		Category: "misc",
		Status:   domain.ListingStatusActive,
	})
	require.NoError(t, err)
}

func TestRecordInterest_NoMatchWhileOneSided(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")

	trade, err := f.uc.RecordInterest(context.Background(), "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	assert.Nil(t, trade)

	trades, err := f.uc.GetTradeOpportunities(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestRecordInterest_MutualInterestCreatesOpportunity(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	trade, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	require.Nil(t, trade)

	trade, err = f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA1", "alice")
	require.NoError(t, err)
	require.NotNil(t, trade)

	assert.Equal(t, "alice", trade.User1ID)
	assert.Equal(t, "bob", trade.User2ID)
	assert.Equal(t, "itemA1", trade.Item1ID)
	assert.Equal(t, "itemB1", trade.Item2ID)
	assert.Equal(t, domain.TradeStatusPending, trade.Status)

	// Visible to both parties.
	for _, user := range []string{"alice", "bob"} {
		trades, err := f.uc.GetTradeOpportunities(ctx, user)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, trade.ID, trades[0].ID)
	}
}

func TestRecordInterest_DetectionIsOrderIndependent(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, first, second [4]string) *domain.TradeOpportunity {
		f := newFixture(t)
		f.addListing(t, "itemA1", "alice", "camera")
		f.addListing(t, "itemB1", "bob", "guitar")

		trade, err := f.uc.RecordInterest(ctx, first[0], first[1], first[2], first[3])
		require.NoError(t, err)
		require.Nil(t, trade)

		trade, err = f.uc.RecordInterest(ctx, second[0], second[1], second[2], second[3])
		require.NoError(t, err)
		require.NotNil(t, trade)
		return trade
	}

	aliceFirst := run(t, [4]string{"alice", "itemA1", "itemB1", "bob"}, [4]string{"bob", "itemB1", "itemA1", "alice"})
	bobFirst := run(t, [4]string{"bob", "itemB1", "itemA1", "alice"}, [4]string{"alice", "itemA1", "itemB1", "bob"})

	// Same canonical pair regardless of who acted last.
	assert.Equal(t, aliceFirst.User1ID, bobFirst.User1ID)
	assert.Equal(t, aliceFirst.User2ID, bobFirst.User2ID)
	assert.Equal(t, aliceFirst.Item1ID, bobFirst.Item1ID)
	assert.Equal(t, aliceFirst.Item2ID, bobFirst.Item2ID)
}

func TestRecordInterest_NoFalsePositiveAcrossPairs(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")
	f.addListing(t, "itemC1", "carol", "bike")

	ctx := context.Background()

	// alice wants bob's guitar, carol wants alice's camera. No cycle closes.
	trade, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	assert.Nil(t, trade)

	trade, err = f.uc.RecordInterest(ctx, "carol", "itemC1", "itemA1", "alice")
	require.NoError(t, err)
	assert.Nil(t, trade)
}

func TestRecordInterest_DuplicateInterestRejected(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	_, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)

	_, err = f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	assert.ErrorIs(t, err, domain.ErrInterestAlreadyExists)
}

func TestRecordInterest_ExistingOpportunityIsReused(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemA2", "alice", "lens")
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	_, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)

	first, err := f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA1", "alice")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Bob also wants alice's lens; alice re-closes against the guitar with
	// a different offered item. The itemA1/itemB1 pair already has an
	// opportunity, so it is returned instead of a duplicate.
	_, err = f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA2", "alice")
	require.NoError(t, err)

	// Alice's oldest unmatched reciprocal from bob still targets itemA1, so
	// the scan resolves to the original itemA1/itemB1 pair and returns the
	// existing opportunity rather than a duplicate.
	again, err := f.uc.RecordInterest(ctx, "alice", "itemA2", "itemB1", "bob")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)
}

func TestRecordInterest_OldestReciprocalWins(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")
	f.addListing(t, "itemB2", "bob", "amp")

	ctx := context.Background()

	// Bob expressed interest twice, offering different items each time.
	_, err := f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA1", "alice")
	require.NoError(t, err)
	_, err = f.uc.RecordInterest(ctx, "bob", "itemB2", "itemA1", "alice")
	require.NoError(t, err)

	trade, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	require.NotNil(t, trade)

	// Alice gives what bob's oldest interest asked for.
	assert.Equal(t, "itemA1", trade.Item1ID)
	assert.Equal(t, "itemB1", trade.Item2ID)
}

func TestRecordInterest_Validation(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemA2", "alice", "lens")
	f.addListing(t, "itemB1", "bob", "guitar")

	archived := &domain.Listing{ID: "itemB2", OwnerID: "bob", Title: "amp", Status: domain.ListingStatusArchived}
	require.NoError(t, f.listings.Create(context.Background(), archived))

	ctx := context.Background()

	tests := []struct {
		name    string
		acting  string
		offered string
		target  string
		owner   string
		wantErr error
	}{
		{"empty acting user", "", "itemA1", "itemB1", "bob", domain.ErrInvalidInput},
		{"self trade", "alice", "itemA1", "itemA2", "alice", domain.ErrCannotTradeWithSelf},
		{"target owned by acting user", "alice", "itemA1", "itemA2", "bob", domain.ErrCannotTradeWithSelf},
		{"offered item not owned", "alice", "itemB1", "itemA1", "bob", domain.ErrInvalidInput},
		{"unknown offered item", "alice", "nope", "itemB1", "bob", domain.ErrInvalidInput},
		{"unknown target item", "alice", "itemA1", "nope", "bob", domain.ErrInvalidInput},
		{"wrong target owner", "alice", "itemA1", "itemB1", "carol", domain.ErrInvalidInput},
		{"inactive target listing", "alice", "itemA1", "itemB2", "bob", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.RecordInterest(ctx, tt.acting, tt.offered, tt.target, tt.owner)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordPass_DoesNotCreateOpportunities(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	_, err := f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA1", "alice")
	require.NoError(t, err)

	// Alice passes on the guitar instead of reciprocating.
	require.NoError(t, f.uc.RecordPass(ctx, "alice", "itemB1", "bob"))

	trades, err := f.uc.GetTradeOpportunities(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, trades)

	// A pass does not consume bob's interest: reciprocating later still matches.
	trade, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	assert.NotNil(t, trade)
}

func TestHasShownInterest(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	shown, err := f.uc.HasShownInterest(ctx, "alice", "itemB1")
	require.NoError(t, err)
	assert.False(t, shown)

	_, err = f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)

	shown, err = f.uc.HasShownInterest(ctx, "alice", "itemB1")
	require.NoError(t, err)
	assert.True(t, shown)
}

func matchedTrade(t *testing.T, f *fixture) *domain.TradeOpportunity {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.RecordInterest(ctx, "alice", "itemA1", "itemB1", "bob")
	require.NoError(t, err)
	trade, err := f.uc.RecordInterest(ctx, "bob", "itemB1", "itemA1", "alice")
	require.NoError(t, err)
	require.NotNil(t, trade)
	return trade
}

func TestUpdateTradeStatus_Lifecycle(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")
	trade := matchedTrade(t, f)

	ctx := context.Background()

	// pending cannot jump straight to completed.
	err := f.uc.UpdateTradeStatus(ctx, "alice", trade.ID, domain.TradeStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.GetTradeOpportunity(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusPending, got.Status)

	require.NoError(t, f.uc.UpdateTradeStatus(ctx, "alice", trade.ID, domain.TradeStatusNegotiating))
	require.NoError(t, f.uc.UpdateTradeStatus(ctx, "bob", trade.ID, domain.TradeStatusCompleted))

	// Terminal states are frozen.
	err = f.uc.UpdateTradeStatus(ctx, "bob", trade.ID, domain.TradeStatusNegotiating)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = f.uc.UpdateTradeStatus(ctx, "bob", trade.ID, domain.TradeStatusDeclined)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateTradeStatus_DeclineFromEitherState(t *testing.T) {
	for _, via := range []domain.TradeStatus{domain.TradeStatusPending, domain.TradeStatusNegotiating} {
		t.Run(string(via), func(t *testing.T) {
			f := newFixture(t)
			f.addListing(t, "itemA1", "alice", "camera")
			f.addListing(t, "itemB1", "bob", "guitar")
			trade := matchedTrade(t, f)

			ctx := context.Background()
			if via == domain.TradeStatusNegotiating {
				require.NoError(t, f.uc.UpdateTradeStatus(ctx, "alice", trade.ID, via))
			}
			require.NoError(t, f.uc.UpdateTradeStatus(ctx, "bob", trade.ID, domain.TradeStatusDeclined))

			got, err := f.uc.GetTradeOpportunity(ctx, trade.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.TradeStatusDeclined, got.Status)
		})
	}
}

func TestUpdateTradeStatus_Authorization(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemA1", "alice", "camera")
	f.addListing(t, "itemB1", "bob", "guitar")
	trade := matchedTrade(t, f)

	ctx := context.Background()
	err := f.uc.UpdateTradeStatus(ctx, "carol", trade.ID, domain.TradeStatusNegotiating)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = f.uc.UpdateTradeStatus(ctx, "alice", trade.ID, domain.TradeStatus("garbage"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.UpdateTradeStatus(ctx, "alice", "missing", domain.TradeStatusNegotiating)
	assert.ErrorIs(t, err, domain.ErrTradeNotFound)

	got, err := f.uc.GetTradeOpportunity(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusPending, got.Status)
}

func TestResetPasses(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "itemB1", "bob", "guitar")

	ctx := context.Background()
	require.NoError(t, f.uc.RecordPass(ctx, "alice", "itemB1", "bob"))
	require.NoError(t, f.uc.ResetPasses(ctx, "alice"))
}
