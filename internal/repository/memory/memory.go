// Package memory provides in-memory repository implementations sharing the
// contract of the postgres ones. They back the test suite and local
// development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type InterestRepository struct {
	mu        sync.RWMutex
	interests []*domain.Interest
}

func NewInterestRepository() *InterestRepository {
	return &InterestRepository{}
}

func (r *InterestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if interest.ID == "" {
		interest.ID = uuid.NewString()
	}
	if interest.CreatedAt.IsZero() {
		interest.CreatedAt = time.Now()
	}
	cp := *interest
	r.interests = append(r.interests, &cp)
	return nil
}

func (r *InterestRepository) GetExact(ctx context.Context, fromUserID, toUserID, fromItemID, toItemID string) (*domain.Interest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, in := range r.interests {
		if in.FromUserID == fromUserID && in.ToUserID == toUserID &&
			in.FromItemID == fromItemID && in.ToItemID == toItemID {
			cp := *in
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InterestRepository) ListFromTo(ctx context.Context, fromUserID, toUserID string) ([]*domain.Interest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Interest
	for _, in := range r.interests {
		if in.FromUserID == fromUserID && in.ToUserID == toUserID {
			cp := *in
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InterestRepository) ExistsForItem(ctx context.Context, fromUserID, toItemID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, in := range r.interests {
		if in.FromUserID == fromUserID && in.ToItemID == toItemID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InterestRepository) ListTargetItems(ctx context.Context, fromUserID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, in := range r.interests {
		if in.FromUserID == fromUserID && !seen[in.ToItemID] {
			seen[in.ToItemID] = true
			out = append(out, in.ToItemID)
		}
	}
	return out, nil
}

type TradeRepository struct {
	mu     sync.RWMutex
	trades map[string]*domain.TradeOpportunity
	order  []string
}

func NewTradeRepository() *TradeRepository {
	return &TradeRepository{trades: make(map[string]*domain.TradeOpportunity)}
}

func (r *TradeRepository) Create(ctx context.Context, trade *domain.TradeOpportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	now := time.Now()
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = now
	}
	trade.UpdatedAt = trade.CreatedAt
	cp := *trade
	r.trades[trade.ID] = &cp
	r.order = append(r.order, trade.ID)
	return nil
}

func (r *TradeRepository) GetByID(ctx context.Context, id string) (*domain.TradeOpportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TradeRepository) GetByItems(ctx context.Context, itemA, itemB string) (*domain.TradeOpportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if t := r.trades[id]; t.SameItems(itemA, itemB) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (r *TradeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TradeOpportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.TradeOpportunity
	for _, id := range r.order {
		if t := r.trades[id]; t.HasUser(userID) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *TradeRepository) UpdateStatus(ctx context.Context, id string, status domain.TradeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trades[id]
	if !ok {
		return domain.ErrTradeNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (r *TradeRepository) UpdatePitch(ctx context.Context, id string, pitch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trades[id]
	if !ok {
		return domain.ErrTradeNotFound
	}
	t.Pitch = &pitch
	t.UpdatedAt = time.Now()
	return nil
}

type PassRepository struct {
	mu     sync.RWMutex
	passes []*domain.Pass
}

func NewPassRepository() *PassRepository {
	return &PassRepository{}
}

func (r *PassRepository) Create(ctx context.Context, pass *domain.Pass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same dedup as the postgres unique index on (user_id, listing_id).
	for _, p := range r.passes {
		if p.UserID == pass.UserID && p.ListingID == pass.ListingID {
			return nil
		}
	}

	if pass.ID == "" {
		pass.ID = uuid.NewString()
	}
	if pass.CreatedAt.IsZero() {
		pass.CreatedAt = time.Now()
	}
	cp := *pass
	r.passes = append(r.passes, &cp)
	return nil
}

func (r *PassRepository) ListListingIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, p := range r.passes {
		if p.UserID == userID {
			out = append(out, p.ListingID)
		}
	}
	return out, nil
}

func (r *PassRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.passes[:0]
	for _, p := range r.passes {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	r.passes = kept
	return nil
}

type ListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
	order    []string
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{listings: make(map[string]*domain.Listing)}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = listing.CreatedAt
	if listing.Status == "" {
		listing.Status = domain.ListingStatusActive
	}
	cp := *listing
	r.listings[listing.ID] = &cp
	r.order = append(r.order, listing.ID)
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *ListingRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Listing
	skipped := 0
	for _, id := range r.order {
		l := r.listings[id]
		if l.Status != domain.ListingStatusActive {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		cp := *l
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Listing
	for _, id := range r.order {
		if l := r.listings[id]; l.OwnerID == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	return nil
}

var (
	_ repository.InterestRepository = (*InterestRepository)(nil)
	_ repository.TradeRepository    = (*TradeRepository)(nil)
	_ repository.PassRepository     = (*PassRepository)(nil)
	_ repository.ListingRepository  = (*ListingRepository)(nil)
)
