package domain

import "time"

// TradeStatus is the lifecycle state of a trade opportunity.
type TradeStatus string

const (
	TradeStatusPending     TradeStatus = "pending"
	TradeStatusNegotiating TradeStatus = "negotiating"
	TradeStatusCompleted   TradeStatus = "completed"
	TradeStatusDeclined    TradeStatus = "declined"
)

// Valid reports whether s is one of the known statuses.
func (s TradeStatus) Valid() bool {
	switch s {
	case TradeStatusPending, TradeStatusNegotiating, TradeStatusCompleted, TradeStatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s TradeStatus) Terminal() bool {
	return s == TradeStatusCompleted || s == TradeStatusDeclined
}

// CanTransitionTo reports whether the move from s to next is legal.
// Completion requires passing through negotiation first.
func (s TradeStatus) CanTransitionTo(next TradeStatus) bool {
	switch s {
	case TradeStatusPending:
		return next == TradeStatusNegotiating || next == TradeStatusDeclined
	case TradeStatusNegotiating:
		return next == TradeStatusCompleted || next == TradeStatusDeclined
	}
	return false
}

// TradeOpportunity is a detected mutual match: User1ID gives Item1ID to
// User2ID and receives Item2ID. Users are stored with User1ID < User2ID.
// Rows are created once on detection and mutated only through status updates.
type TradeOpportunity struct {
	ID        string      `json:"id" db:"id"`
	User1ID   string      `json:"user1_id" db:"user1_id"`
	User2ID   string      `json:"user2_id" db:"user2_id"`
	Item1ID   string      `json:"item1_id" db:"item1_id"`
	Item2ID   string      `json:"item2_id" db:"item2_id"`
	Status    TradeStatus `json:"status" db:"status"`
	Pitch     *string     `json:"pitch" db:"pitch"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

func (t *TradeOpportunity) HasUser(userID string) bool {
	return t.User1ID == userID || t.User2ID == userID
}

func (t *TradeOpportunity) OtherUserID(userID string) (string, bool) {
	if t.User1ID == userID {
		return t.User2ID, true
	}
	if t.User2ID == userID {
		return t.User1ID, true
	}
	return "", false
}

// SameItems reports whether the opportunity covers the given unordered item pair.
func (t *TradeOpportunity) SameItems(itemA, itemB string) bool {
	return (t.Item1ID == itemA && t.Item2ID == itemB) ||
		(t.Item1ID == itemB && t.Item2ID == itemA)
}
