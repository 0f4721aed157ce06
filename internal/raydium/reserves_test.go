package raydium

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-amm-quoter/internal/fixedpoint"
	"solana-amm-quoter/internal/serum"
)

func poolStateWith(status Status, coinPnl, pcPnl uint64) *PoolState {
	return &PoolState{
		Status:          status,
		CoinNeedTakePnl: coinPnl,
		PcNeedTakePnl:   pcPnl,
	}
}

func TestEffectiveReservesVaultOnly(t *testing.T) {
	// swap-only pools have no order-book participation: reserves are
	// the vault balances minus pending take-pnl, nothing else
	state := poolStateWith(StatusSwapOnly, 100, 200)
	coin, pc, err := EffectiveReserves(state, 1_000_000, 2_000_000, nil, nil, testKey(6))
	require.NoError(t, err)
	assert.Equal(t, uint64(999_900), coin)
	assert.Equal(t, uint64(1_999_800), pc)
}

func TestEffectiveReservesWithOrderBook(t *testing.T) {
	state := poolStateWith(StatusInitialized, 100, 200)
	oo := &serum.OpenOrders{
		NativeBaseTotal:  50_000,
		NativeQuoteTotal: 70_000,
	}
	queue := emptyQueue(t)

	coin, pc, err := EffectiveReserves(state, 1_000_000, 2_000_000, oo, queue, testKey(6))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000+50_000-100), coin)
	assert.Equal(t, uint64(2_000_000+70_000-200), pc)
}

func TestEffectiveReservesCountsUnsettledMakerFills(t *testing.T) {
	state := poolStateWith(StatusInitialized, 0, 0)
	oo := &serum.OpenOrders{NativeBaseTotal: 1_000, NativeQuoteTotal: 2_000}
	ooKey := testKey(6)

	queue := queueWith(t,
		// maker bid fill owned by the pool: pc paid plus rebate
		serum.Event{Flags: serum.EventFill | serum.EventBid | serum.EventMaker, NativeQtyPaid: 300, NativeFeeOrRebate: 3, Owner: ooKey},
		// maker ask fill owned by the pool: coin paid
		serum.Event{Flags: serum.EventFill | serum.EventMaker, NativeQtyPaid: 400, Owner: ooKey},
		// fill owned by someone else is ignored
		serum.Event{Flags: serum.EventFill | serum.EventMaker, NativeQtyPaid: 9_999, Owner: testKey(7)},
		// taker fill is ignored
		serum.Event{Flags: serum.EventFill | serum.EventBid, NativeQtyPaid: 9_999, Owner: ooKey},
		// out event is ignored
		serum.Event{Flags: serum.EventOut, NativeQtyReleased: 9_999, Owner: ooKey},
	)

	coin, pc, err := EffectiveReserves(state, 10_000, 20_000, oo, queue, ooKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000+1_000+400), coin)
	assert.Equal(t, uint64(20_000+2_000+300+3), pc)
}

func TestEffectiveReservesOrderBookRequired(t *testing.T) {
	state := poolStateWith(StatusInitialized, 0, 0)

	_, _, err := EffectiveReserves(state, 1, 1, nil, emptyQueue(t), testKey(6))
	assert.ErrorIs(t, err, ErrOrderBookState)

	_, _, err = EffectiveReserves(state, 1, 1, &serum.OpenOrders{}, nil, testKey(6))
	assert.ErrorIs(t, err, ErrOrderBookState)
}

func TestEffectiveReservesOverflow(t *testing.T) {
	state := poolStateWith(StatusInitialized, 0, 0)
	ooKey := testKey(6)

	t.Run("open orders base total", func(t *testing.T) {
		oo := &serum.OpenOrders{NativeBaseTotal: 2}
		_, _, err := EffectiveReserves(state, math.MaxUint64, 1_000, oo, emptyQueue(t), ooKey)
		assert.ErrorIs(t, err, fixedpoint.ErrOverflow)
	})

	t.Run("open orders quote total", func(t *testing.T) {
		oo := &serum.OpenOrders{NativeQuoteTotal: 1}
		_, _, err := EffectiveReserves(state, 1_000, math.MaxUint64, oo, emptyQueue(t), ooKey)
		assert.ErrorIs(t, err, fixedpoint.ErrOverflow)
	})

	t.Run("maker ask fill", func(t *testing.T) {
		queue := queueWith(t,
			serum.Event{Flags: serum.EventFill | serum.EventMaker, NativeQtyPaid: math.MaxUint64, Owner: ooKey},
		)
		_, _, err := EffectiveReserves(state, 1_000, 1_000, &serum.OpenOrders{}, queue, ooKey)
		assert.ErrorIs(t, err, fixedpoint.ErrOverflow)
	})

	t.Run("maker bid fill rebate", func(t *testing.T) {
		queue := queueWith(t,
			serum.Event{Flags: serum.EventFill | serum.EventBid | serum.EventMaker, NativeQtyPaid: 1, NativeFeeOrRebate: math.MaxUint64, Owner: ooKey},
		)
		_, _, err := EffectiveReserves(state, 1_000, 1_000, &serum.OpenOrders{}, queue, ooKey)
		assert.ErrorIs(t, err, fixedpoint.ErrOverflow)
	})
}

func TestEffectiveReservesPnlUnderflow(t *testing.T) {
	state := poolStateWith(StatusSwapOnly, 200, 0)
	_, _, err := EffectiveReserves(state, 100, 1_000, nil, nil, testKey(6))
	assert.ErrorContains(t, err, "take-pnl")
}

// queue helpers built through the real decoder so the ring semantics
// stay honest.

func emptyQueue(t *testing.T) *serum.EventQueue {
	t.Helper()
	return queueWith(t)
}

func queueWith(t *testing.T, events ...serum.Event) *serum.EventQueue {
	t.Helper()
	q := serum.NewEventQueue(8)
	for _, e := range events {
		require.NoError(t, q.PushBack(e))
	}
	return q
}
