package raydium

import "fmt"

// Status is the pool lifecycle code stored in the liquidity state account.
type Status uint64

const (
	StatusUninitialized Status = iota
	StatusInitialized
	StatusDisabled
	StatusWithdrawOnly
	StatusLiquidityOnly
	StatusOrderBookOnly
	StatusSwapOnly
	StatusWaitingTrade
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitialized:
		return "initialized"
	case StatusDisabled:
		return "disabled"
	case StatusWithdrawOnly:
		return "withdraw_only"
	case StatusLiquidityOnly:
		return "liquidity_only"
	case StatusOrderBookOnly:
		return "orderbook_only"
	case StatusSwapOnly:
		return "swap_only"
	case StatusWaitingTrade:
		return "waiting_trade"
	default:
		return fmt.Sprintf("status(%d)", uint64(s))
	}
}

// Valid reports whether s is one of the eight defined codes.
func (s Status) Valid() bool {
	return s <= StatusWaitingTrade
}

// permissions is the literal per-status permission table. Order of
// entries follows the status codes; order of fields is deposit,
// withdraw, swap, order-book participation.
var permissions = [8]struct {
	deposit   bool
	withdraw  bool
	swap      bool
	orderBook bool
}{
	StatusUninitialized: {false, false, false, false},
	StatusInitialized:   {true, true, true, true},
	StatusDisabled:      {false, false, false, false},
	StatusWithdrawOnly:  {false, true, false, false},
	StatusLiquidityOnly: {true, true, false, false},
	StatusOrderBookOnly: {true, true, false, true},
	StatusSwapOnly:      {true, true, true, false},
	StatusWaitingTrade:  {true, true, true, false},
}

func (s Status) AllowsDeposit() bool {
	return s.Valid() && permissions[s].deposit
}

func (s Status) AllowsWithdraw() bool {
	return s.Valid() && permissions[s].withdraw
}

func (s Status) AllowsSwap() bool {
	return s.Valid() && permissions[s].swap
}

// AllowsOrderBook reports whether pool liquidity participates on the
// associated market, which decides the reserve accounting branch.
func (s Status) AllowsOrderBook() bool {
	return s.Valid() && permissions[s].orderBook
}
