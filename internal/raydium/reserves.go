package raydium

import (
	"fmt"
	"math/bits"

	"github.com/gagliardetto/solana-go"

	"solana-amm-quoter/internal/fixedpoint"
	"solana-amm-quoter/internal/serum"
)

// EffectiveReserves computes the tradable coin/pc reserves of a pool.
//
// The base is the two vault balances minus the pending take-pnl amounts
// the protocol has earmarked for withdrawal. When the pool status grants
// order-book participation, funds resting on the associated market must
// be counted too: the open-orders native totals plus any unsettled maker
// fills still sitting in the market event queue. Skipping the order-book
// side while the status permits it prices the pool systematically wrong.
//
// openOrdersKey is the pool's own open-orders account; only queue events
// it owns are credited.
func EffectiveReserves(
	state *PoolState,
	coinVault, pcVault uint64,
	openOrders *serum.OpenOrders,
	eventQueue *serum.EventQueue,
	openOrdersKey solana.PublicKey,
) (uint64, uint64, error) {
	coin := coinVault
	pc := pcVault

	if state.Status.AllowsOrderBook() {
		if openOrders == nil {
			return 0, 0, fmt.Errorf("%w: open orders account not decoded", ErrOrderBookState)
		}
		if eventQueue == nil {
			return 0, 0, fmt.Errorf("%w: event queue not decoded", ErrOrderBookState)
		}

		var err error
		if coin, err = addReserve(coin, openOrders.NativeBaseTotal, "coin"); err != nil {
			return 0, 0, err
		}
		if pc, err = addReserve(pc, openOrders.NativeQuoteTotal, "pc"); err != nil {
			return 0, 0, err
		}

		for _, ev := range eventQueue.Pending() {
			if !ev.Flags.IsFill() || !ev.Flags.IsMaker() {
				continue
			}
			if !ev.Owner.Equals(openOrdersKey) {
				continue
			}
			if ev.Flags.IsBid() {
				// maker bid fill: the paid pc plus the maker rebate flow
				// back into pool funds once cranked
				if pc, err = addReserve(pc, ev.NativeQtyPaid, "pc"); err != nil {
					return 0, 0, err
				}
				if pc, err = addReserve(pc, ev.NativeFeeOrRebate, "pc"); err != nil {
					return 0, 0, err
				}
			} else {
				if coin, err = addReserve(coin, ev.NativeQtyPaid, "coin"); err != nil {
					return 0, 0, err
				}
			}
		}
	}

	if coin < state.CoinNeedTakePnl {
		return 0, 0, fmt.Errorf("raydium: coin reserve %d below pending take-pnl %d", coin, state.CoinNeedTakePnl)
	}
	if pc < state.PcNeedTakePnl {
		return 0, 0, fmt.Errorf("raydium: pc reserve %d below pending take-pnl %d", pc, state.PcNeedTakePnl)
	}
	return coin - state.CoinNeedTakePnl, pc - state.PcNeedTakePnl, nil
}

// addReserve accumulates one reserve component, failing the quote instead
// of wrapping when the sum exceeds uint64. Sums that large only appear on
// corrupt or hostile account data.
func addReserve(sum, add uint64, side string) (uint64, error) {
	out, carry := bits.Add64(sum, add, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %s reserve accumulation", fixedpoint.ErrOverflow, side)
	}
	return out, nil
}
