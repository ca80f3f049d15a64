package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-service/internal/apperr"
)

func TestTradeTransitions(t *testing.T) {
	cases := []struct {
		from, to TradeStatus
		ok       bool
	}{
		{TradePending, TradeAccepted, true},
		{TradePending, TradeRejected, true},
		{TradePending, TradeCompleted, false},
		{TradeAccepted, TradeCompleted, true},
		{TradeAccepted, TradePending, false},
		{TradeAccepted, TradeRejected, false},
		{TradeRejected, TradePending, false},
		{TradeRejected, TradeAccepted, false},
		{TradeCompleted, TradePending, false},
	}
	for _, tc := range cases {
		next, err := tc.from.Transition(tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, next)
			continue
		}
		require.ErrorIs(t, err, apperr.ErrInvalidState, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, next)
	}
}

func TestTradeDecision(t *testing.T) {
	status, err := DecisionAccept.Status()
	require.NoError(t, err)
	assert.Equal(t, TradeAccepted, status)
	assert.Equal(t, KindTradeAccepted, DecisionAccept.NotificationKind())

	status, err = DecisionReject.Status()
	require.NoError(t, err)
	assert.Equal(t, TradeRejected, status)
	assert.Equal(t, KindTradeRejected, DecisionReject.NotificationKind())

	_, err = TradeDecision("maybe").Status()
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStatusAndKindValues(t *testing.T) {
	for _, s := range []TradeStatus{"pending", "accepted", "rejected", "completed"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TradeStatus("canceled").Valid())

	for _, k := range []NotificationKind{"partner_request", "trade_offer", "trade_accepted", "trade_rejected"} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, NotificationKind("friend_request").Valid())
}
