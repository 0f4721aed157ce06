package raydium

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusPermissions(t *testing.T) {
	tests := []struct {
		status    Status
		deposit   bool
		withdraw  bool
		swap      bool
		orderBook bool
	}{
		{StatusUninitialized, false, false, false, false},
		{StatusInitialized, true, true, true, true},
		{StatusDisabled, false, false, false, false},
		{StatusWithdrawOnly, false, true, false, false},
		{StatusLiquidityOnly, true, true, false, false},
		{StatusOrderBookOnly, true, true, false, true},
		{StatusSwapOnly, true, true, true, false},
		{StatusWaitingTrade, true, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.deposit, tt.status.AllowsDeposit(), "deposit")
			assert.Equal(t, tt.withdraw, tt.status.AllowsWithdraw(), "withdraw")
			assert.Equal(t, tt.swap, tt.status.AllowsSwap(), "swap")
			assert.Equal(t, tt.orderBook, tt.status.AllowsOrderBook(), "order book")
		})
	}
}

func TestStatusOutOfRange(t *testing.T) {
	s := Status(8)
	assert.False(t, s.Valid())
	assert.False(t, s.AllowsDeposit())
	assert.False(t, s.AllowsWithdraw())
	assert.False(t, s.AllowsSwap())
	assert.False(t, s.AllowsOrderBook())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "swap_only", StatusSwapOnly.String())
	assert.Equal(t, "status(99)", Status(99).String())
}
