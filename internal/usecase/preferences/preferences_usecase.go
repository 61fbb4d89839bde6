// Package preferences exposes the five persisted preference domains over a
// durable key-value medium: favorites, the selected trade item, feed
// filters, view mode and theme. Favorites, the selected item and filters
// are keyed per user and cleared on logout; view mode and theme belong to
// the device and survive it.
package preferences

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/prefstore"
)

type PreferencesUseCase struct {
	kv prefstore.KV

	mu        sync.Mutex
	favorites map[string]*prefstore.Value[[]string]
	selected  map[string]*prefstore.Value[*domain.ListingSummary]
	filters   map[string]*prefstore.Value[domain.FilterPreferences]

	viewMode *prefstore.Value[domain.ViewMode]
	theme    *prefstore.Value[domain.ThemeMode]
}

func NewPreferencesUseCase(kv prefstore.KV) *PreferencesUseCase {
	return &PreferencesUseCase{
		kv:        kv,
		favorites: make(map[string]*prefstore.Value[[]string]),
		selected:  make(map[string]*prefstore.Value[*domain.ListingSummary]),
		filters:   make(map[string]*prefstore.Value[domain.FilterPreferences]),
		viewMode:  prefstore.NewValue(kv, deviceKey("view_mode"), domain.ViewModeSwipe),
		theme:     prefstore.NewValue(kv, deviceKey("theme"), domain.ThemeModeLight),
	}
}

func userKey(userID, name string) string {
	return fmt.Sprintf("prefs:user:%s:%s", userID, name)
}

func deviceKey(name string) string {
	return "prefs:device:" + name
}

func (uc *PreferencesUseCase) favoritesValue(userID string) *prefstore.Value[[]string] {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	v, ok := uc.favorites[userID]
	if !ok {
		v = prefstore.NewValue(uc.kv, userKey(userID, "favorites"), []string(nil))
		uc.favorites[userID] = v
	}
	return v
}

func (uc *PreferencesUseCase) selectedValue(userID string) *prefstore.Value[*domain.ListingSummary] {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	v, ok := uc.selected[userID]
	if !ok {
		v = prefstore.NewValue[*domain.ListingSummary](uc.kv, userKey(userID, "selected_trade_item"), nil)
		uc.selected[userID] = v
	}
	return v
}

func (uc *PreferencesUseCase) filtersValue(userID string) *prefstore.Value[domain.FilterPreferences] {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	v, ok := uc.filters[userID]
	if !ok {
		v = prefstore.NewValue(uc.kv, userKey(userID, "filters"), domain.FilterPreferences{})
		uc.filters[userID] = v
	}
	return v
}

// Favorites returns the user's favorited listing IDs, sorted.
func (uc *PreferencesUseCase) Favorites(ctx context.Context, userID string) []string {
	return uc.favoritesValue(userID).Get(ctx)
}

// ToggleFavorite flips membership of the listing in the favorites set and
// reports whether it is now a favorite.
func (uc *PreferencesUseCase) ToggleFavorite(ctx context.Context, userID, listingID string) bool {
	next := uc.favoritesValue(userID).Update(ctx, func(ids []string) []string {
		for i, id := range ids {
			if id == listingID {
				return append(append([]string(nil), ids[:i]...), ids[i+1:]...)
			}
		}
		out := append(append([]string(nil), ids...), listingID)
		sort.Strings(out)
		return out
	})
	for _, id := range next {
		if id == listingID {
			return true
		}
	}
	return false
}

func (uc *PreferencesUseCase) IsFavorite(ctx context.Context, userID, listingID string) bool {
	for _, id := range uc.favoritesValue(userID).Get(ctx) {
		if id == listingID {
			return true
		}
	}
	return false
}

// SelectedTradeItem returns the user's selected trade-offer item. loaded is
// false until the initial read from storage resolves; callers must treat
// that as "don't prompt yet", not as "nothing selected".
func (uc *PreferencesUseCase) SelectedTradeItem(ctx context.Context, userID string) (item *domain.ListingSummary, loaded bool) {
	v := uc.selectedValue(userID)
	return v.Get(ctx), v.Loaded()
}

func (uc *PreferencesUseCase) SelectTradeItem(ctx context.Context, userID string, item domain.ListingSummary) {
	uc.selectedValue(userID).Set(ctx, &item)
}

func (uc *PreferencesUseCase) ClearSelectedTradeItem(ctx context.Context, userID string) {
	uc.selectedValue(userID).Set(ctx, nil)
}

func (uc *PreferencesUseCase) Filters(ctx context.Context, userID string) domain.FilterPreferences {
	return uc.filtersValue(userID).Get(ctx)
}

// UpdateFilters merges the non-nil fields of upd into the stored filters
// and returns the result; unspecified fields keep their previous values.
func (uc *PreferencesUseCase) UpdateFilters(ctx context.Context, userID string, upd domain.FilterPreferencesUpdate) domain.FilterPreferences {
	return uc.filtersValue(userID).Update(ctx, func(f domain.FilterPreferences) domain.FilterPreferences {
		return f.Merge(upd)
	})
}

func (uc *PreferencesUseCase) ViewMode(ctx context.Context) domain.ViewMode {
	return uc.viewMode.Get(ctx)
}

func (uc *PreferencesUseCase) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if !mode.Valid() {
		return domain.ErrInvalidInput
	}
	uc.viewMode.Set(ctx, mode)
	return nil
}

func (uc *PreferencesUseCase) Theme(ctx context.Context) domain.ThemeMode {
	return uc.theme.Get(ctx)
}

func (uc *PreferencesUseCase) SetTheme(ctx context.Context, mode domain.ThemeMode) error {
	if !mode.Valid() {
		return domain.ErrInvalidInput
	}
	uc.theme.Set(ctx, mode)
	return nil
}

// ClearUserScoped removes the user's favorites, selected trade item and
// filters, durably and in memory. The logout flow must call this so the
// next logged-in user never sees the previous user's state. Device-scoped
// preferences (view mode, theme) are untouched.
func (uc *PreferencesUseCase) ClearUserScoped(ctx context.Context, userID string) error {
	uc.mu.Lock()
	fav := uc.favorites[userID]
	sel := uc.selected[userID]
	fil := uc.filters[userID]
	delete(uc.favorites, userID)
	delete(uc.selected, userID)
	delete(uc.filters, userID)
	uc.mu.Unlock()

	// Settle in-flight persists first so none of them resurrect a key
	// after the delete.
	if fav != nil {
		fav.Flush()
	}
	if sel != nil {
		sel.Flush()
	}
	if fil != nil {
		fil.Flush()
	}

	return uc.kv.Delete(ctx,
		userKey(userID, "favorites"),
		userKey(userID, "selected_trade_item"),
		userKey(userID, "filters"),
	)
}

// Flush waits for all pending persists. Called on shutdown.
func (uc *PreferencesUseCase) Flush() {
	uc.mu.Lock()
	values := make([]interface{ Flush() }, 0, len(uc.favorites)+len(uc.selected)+len(uc.filters)+2)
	for _, v := range uc.favorites {
		values = append(values, v)
	}
	for _, v := range uc.selected {
		values = append(values, v)
	}
	for _, v := range uc.filters {
		values = append(values, v)
	}
	values = append(values, uc.viewMode, uc.theme)
	uc.mu.Unlock()

	for _, v := range values {
		v.Flush()
	}
}
