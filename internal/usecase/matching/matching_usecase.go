// Package matching owns the interest ledger and the reciprocity scan that
// turns two one-sided interests into a trade opportunity.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/infrastructure/gemini"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

// Tie-break when several historical interests from the target user match:
// the oldest one in ledger order wins.
const matchPolicyOldestWins = true

const pitchTimeout = 15 * time.Second

type MatchingUseCase struct {
	interestRepo repository.InterestRepository
	tradeRepo    repository.TradeRepository
	passRepo     repository.PassRepository
	listingRepo  repository.ListingRepository
	geminiClient *gemini.Client

	// Serializes RecordInterest so the append and the reciprocity scan are
	// atomic: near-simultaneous reciprocal calls can neither both miss the
	// match nor both create the opportunity.
	mu sync.Mutex
}

func NewMatchingUseCase(
	interestRepo repository.InterestRepository,
	tradeRepo repository.TradeRepository,
	passRepo repository.PassRepository,
	listingRepo repository.ListingRepository,
	geminiClient *gemini.Client,
) *MatchingUseCase {
	return &MatchingUseCase{
		interestRepo: interestRepo,
		tradeRepo:    tradeRepo,
		passRepo:     passRepo,
		listingRepo:  listingRepo,
		geminiClient: geminiClient,
	}
}

// RecordInterest appends to the ledger and runs the reciprocity scan.
// It returns the trade opportunity when a mutual match is detected and
// nil when the interest stays latent.
func (uc *MatchingUseCase) RecordInterest(ctx context.Context, actingUserID, offeredItemID, targetItemID, targetUserID string) (*domain.TradeOpportunity, error) {
	offered, target, err := uc.validateInterest(ctx, actingUserID, offeredItemID, targetItemID, targetUserID)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	existing, err := uc.interestRepo.GetExact(ctx, actingUserID, targetUserID, offeredItemID, targetItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing interest: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrInterestAlreadyExists
	}

	interest := &domain.Interest{
		FromUserID: actingUserID,
		ToUserID:   targetUserID,
		FromItemID: offeredItemID,
		ToItemID:   targetItemID,
	}
	if err := uc.interestRepo.Create(ctx, interest); err != nil {
		return nil, fmt.Errorf("failed to record interest: %w", err)
	}

	reciprocal, err := uc.findReciprocal(ctx, actingUserID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("reciprocity scan failed: %w", err)
	}
	if reciprocal == nil {
		return nil, nil
	}

	// The acting user gives up the item the target historically wanted;
	// the target gives up the item just sought.
	trade, err := uc.createOpportunity(ctx, actingUserID, reciprocal.ToItemID, targetUserID, targetItemID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("trade_id", trade.ID).
		Str("user1_id", trade.User1ID).
		Str("user2_id", trade.User2ID).
		Msg("mutual interest detected, trade opportunity created")

	if uc.geminiClient != nil {
		go uc.enrichWithPitch(trade.ID, offered, target)
	}

	return trade, nil
}

func (uc *MatchingUseCase) validateInterest(ctx context.Context, actingUserID, offeredItemID, targetItemID, targetUserID string) (*domain.Listing, *domain.Listing, error) {
	if actingUserID == "" || offeredItemID == "" || targetItemID == "" || targetUserID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if actingUserID == targetUserID {
		return nil, nil, domain.ErrCannotTradeWithSelf
	}

	offered, err := uc.listingRepo.GetByID(ctx, offeredItemID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, nil, domain.ErrInvalidInput
		}
		return nil, nil, err
	}
	if offered.OwnerID != actingUserID {
		return nil, nil, domain.ErrInvalidInput
	}

	target, err := uc.listingRepo.GetByID(ctx, targetItemID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, nil, domain.ErrInvalidInput
		}
		return nil, nil, err
	}
	if target.OwnerID == actingUserID {
		return nil, nil, domain.ErrCannotTradeWithSelf
	}
	if target.OwnerID != targetUserID || target.Status != domain.ListingStatusActive {
		return nil, nil, domain.ErrInvalidInput
	}

	return offered, target, nil
}

// findReciprocal returns the target user's historical interest in something
// of the acting user's, or nil when there is none.
func (uc *MatchingUseCase) findReciprocal(ctx context.Context, actingUserID, targetUserID string) (*domain.Interest, error) {
	candidates, err := uc.interestRepo.ListFromTo(ctx, targetUserID, actingUserID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if matchPolicyOldestWins {
		return candidates[0], nil
	}
	return candidates[len(candidates)-1], nil
}

// createOpportunity builds the matched pair with the lower user ID as
// user1, reusing an existing opportunity covering the same item pair.
func (uc *MatchingUseCase) createOpportunity(ctx context.Context, actingUserID, actingItemID, targetUserID, targetItemID string) (*domain.TradeOpportunity, error) {
	existing, err := uc.tradeRepo.GetByItems(ctx, actingItemID, targetItemID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTradeNotFound) {
		return nil, fmt.Errorf("failed to check existing opportunity: %w", err)
	}

	trade := &domain.TradeOpportunity{
		User1ID: actingUserID,
		User2ID: targetUserID,
		Item1ID: actingItemID,
		Item2ID: targetItemID,
		Status:  domain.TradeStatusPending,
	}
	if trade.User1ID > trade.User2ID {
		trade.User1ID, trade.User2ID = trade.User2ID, trade.User1ID
		trade.Item1ID, trade.Item2ID = trade.Item2ID, trade.Item1ID
	}

	if err := uc.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade opportunity: %w", err)
	}
	return trade, nil
}

func (uc *MatchingUseCase) enrichWithPitch(tradeID string, offered, target *domain.Listing) {
	ctx, cancel := context.WithTimeout(context.Background(), pitchTimeout)
	defer cancel()

	pitch, err := uc.geminiClient.GenerateTradePitch(ctx, offered.Title, target.Title)
	if err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID).Msg("trade pitch generation failed")
		return
	}
	if err := uc.tradeRepo.UpdatePitch(ctx, tradeID, pitch); err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID).Msg("failed to store trade pitch")
	}
}

// RecordPass records a negative signal so the listing is not surfaced to
// the user again. It never touches interests or opportunities.
func (uc *MatchingUseCase) RecordPass(ctx context.Context, actingUserID, listingID, ownerUserID string) error {
	if actingUserID == "" || listingID == "" {
		return domain.ErrInvalidInput
	}
	pass := &domain.Pass{
		UserID:      actingUserID,
		ListingID:   listingID,
		OwnerUserID: ownerUserID,
	}
	if err := uc.passRepo.Create(ctx, pass); err != nil {
		return fmt.Errorf("failed to record pass: %w", err)
	}
	return nil
}

// ResetPasses clears the user's pass list so passed listings resurface.
func (uc *MatchingUseCase) ResetPasses(ctx context.Context, actingUserID string) error {
	if err := uc.passRepo.DeleteByUser(ctx, actingUserID); err != nil {
		return fmt.Errorf("failed to reset passes: %w", err)
	}
	return nil
}

// HasShownInterest reports whether the user has ever expressed interest in
// the listing.
func (uc *MatchingUseCase) HasShownInterest(ctx context.Context, actingUserID, listingID string) (bool, error) {
	return uc.interestRepo.ExistsForItem(ctx, actingUserID, listingID)
}

// GetTradeOpportunities returns every opportunity the user is a party to,
// most recent first.
func (uc *MatchingUseCase) GetTradeOpportunities(ctx context.Context, userID string) ([]*domain.TradeOpportunity, error) {
	return uc.tradeRepo.ListByUser(ctx, userID)
}

func (uc *MatchingUseCase) GetTradeOpportunity(ctx context.Context, id string) (*domain.TradeOpportunity, error) {
	return uc.tradeRepo.GetByID(ctx, id)
}

// UpdateTradeStatus moves an opportunity through its lifecycle. Only the
// two involved parties may transition it, transitions are monotonic, and
// terminal states are frozen. Nothing is mutated on rejection.
func (uc *MatchingUseCase) UpdateTradeStatus(ctx context.Context, actingUserID, id string, newStatus domain.TradeStatus) error {
	if !newStatus.Valid() {
		return domain.ErrInvalidInput
	}

	trade, err := uc.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !trade.HasUser(actingUserID) {
		return domain.ErrNotAuthorized
	}
	if !trade.Status.CanTransitionTo(newStatus) {
		return domain.ErrInvalidTransition
	}

	if err := uc.tradeRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}

	log.Info().
		Str("trade_id", id).
		Str("from", string(trade.Status)).
		Str("to", string(newStatus)).
		Msg("trade status updated")
	return nil
}
