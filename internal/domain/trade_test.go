package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeStatusTransitions(t *testing.T) {
	all := []TradeStatus{TradeStatusPending, TradeStatusNegotiating, TradeStatusCompleted, TradeStatusDeclined}

	allowed := map[TradeStatus]map[TradeStatus]bool{
		TradeStatusPending:     {TradeStatusNegotiating: true, TradeStatusDeclined: true},
		TradeStatusNegotiating: {TradeStatusCompleted: true, TradeStatusDeclined: true},
		TradeStatusCompleted:   {},
		TradeStatusDeclined:    {},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, TradeStatusPending.Terminal())
	assert.False(t, TradeStatusNegotiating.Terminal())
	assert.True(t, TradeStatusCompleted.Terminal())
	assert.True(t, TradeStatusDeclined.Terminal())

	assert.True(t, TradeStatusPending.Valid())
	assert.False(t, TradeStatus("garbage").Valid())
}

func TestTradeOpportunitySameItems(t *testing.T) {
	tr := &TradeOpportunity{Item1ID: "a", Item2ID: "b"}
	assert.True(t, tr.SameItems("a", "b"))
	assert.True(t, tr.SameItems("b", "a"))
	assert.False(t, tr.SameItems("a", "c"))
}

func TestTradeOpportunityOtherUserID(t *testing.T) {
	tr := &TradeOpportunity{User1ID: "alice", User2ID: "bob"}

	other, ok := tr.OtherUserID("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", other)

	other, ok = tr.OtherUserID("bob")
	assert.True(t, ok)
	assert.Equal(t, "alice", other)

	_, ok = tr.OtherUserID("carol")
	assert.False(t, ok)
}
