package domain

import "time"

// Interest is a directional record that FromUserID would give up FromItemID
// in exchange for ToItemID, owned by ToUserID. The interest ledger is
// append-only: rows are never updated or deleted.
type Interest struct {
	ID         string    `json:"id" db:"id"`
	FromUserID string    `json:"from_user_id" db:"from_user_id"`
	ToUserID   string    `json:"to_user_id" db:"to_user_id"`
	FromItemID string    `json:"from_item_id" db:"from_item_id"`
	ToItemID   string    `json:"to_item_id" db:"to_item_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Pass records that a user does not want to see a listing again.
type Pass struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ListingID   string    `json:"listing_id" db:"listing_id"`
	OwnerUserID string    `json:"owner_user_id" db:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
