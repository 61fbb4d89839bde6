package domain

// ViewMode controls how the listing feed is rendered client-side.
type ViewMode string

const (
	ViewModeSwipe ViewMode = "swipe"
	ViewModeGrid  ViewMode = "grid"
	ViewModeMap   ViewMode = "map"
)

func (m ViewMode) Valid() bool {
	return m == ViewModeSwipe || m == ViewModeGrid || m == ViewModeMap
}

type ThemeMode string

const (
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

func (m ThemeMode) Valid() bool {
	return m == ThemeModeLight || m == ThemeModeDark
}

// FilterPreferences narrows the listing feed. Zero values mean "no filter".
type FilterPreferences struct {
	Category      string   `json:"category"`
	MaxDistanceKm *float64 `json:"max_distance_km"`
	MinValue      *float64 `json:"min_value"`
	MaxValue      *float64 `json:"max_value"`
	Location      string   `json:"location"`
}

// FilterPreferencesUpdate is a partial update; nil fields leave the
// existing value unchanged.
type FilterPreferencesUpdate struct {
	Category      *string  `json:"category"`
	MaxDistanceKm *float64 `json:"max_distance_km"`
	MinValue      *float64 `json:"min_value"`
	MaxValue      *float64 `json:"max_value"`
	Location      *string  `json:"location"`
}

// Merge applies the non-nil fields of u onto f and returns the result.
func (f FilterPreferences) Merge(u FilterPreferencesUpdate) FilterPreferences {
	if u.Category != nil {
		f.Category = *u.Category
	}
	if u.MaxDistanceKm != nil {
		f.MaxDistanceKm = u.MaxDistanceKm
	}
	if u.MinValue != nil {
		f.MinValue = u.MinValue
	}
	if u.MaxValue != nil {
		f.MaxValue = u.MaxValue
	}
	if u.Location != nil {
		f.Location = *u.Location
	}
	return f
}
