package domain

import "time"

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusTraded   ListingStatus = "traded"
	ListingStatusArchived ListingStatus = "archived"
)

type Listing struct {
	ID             string        `json:"id" db:"id"`
	OwnerID        string        `json:"owner_id" db:"owner_id"`
	Title          string        `json:"title" db:"title"`
	Description    *string       `json:"description" db:"description"`
	Category       string        `json:"category" db:"category"`
	EstimatedValue float64       `json:"estimated_value" db:"estimated_value"`
	Status         ListingStatus `json:"status" db:"status"`
	ImageURLs      []string      `json:"image_urls" db:"image_urls"`
	LocationLat    *float64      `json:"location_lat" db:"location_lat"`
	LocationLon    *float64      `json:"location_lon" db:"location_lon"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// ListingSummary is the subset of listing fields kept in the persisted
// "selected trade item" preference and in feed/trade responses.
type ListingSummary struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	ImageURLs      []string      `json:"image_urls"`
	EstimatedValue float64       `json:"estimated_value"`
	Status         ListingStatus `json:"status"`
}

func (l *Listing) Summary() ListingSummary {
	return ListingSummary{
		ID:             l.ID,
		Title:          l.Title,
		ImageURLs:      l.ImageURLs,
		EstimatedValue: l.EstimatedValue,
		Status:         l.Status,
	}
}
