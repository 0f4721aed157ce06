package serum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (b *accountBuilder) event(e Event) *accountBuilder {
	b.u8(uint8(e.Flags)).u8(e.OwnerSlot).u8(e.FeeTier).zeros(5)
	b.u64(e.NativeQtyReleased).u64(e.NativeQtyPaid).u64(e.NativeFeeOrRebate)
	lo, err := e.OrderID.Uint64()
	if err != nil {
		panic(err)
	}
	b.u128(lo)
	b.pubkey(e.Owner)
	b.u64(e.ClientOrderID)
	return b
}

func buildQueue(head, count, seq uint64, ring []Event) []byte {
	b := newAccount().u64(17).u64(head).u64(count).u64(seq)
	for _, e := range ring {
		b.event(e)
	}
	return b.done()
}

func TestDecodeEventQueueEmpty(t *testing.T) {
	data := buildQueue(0, 0, 9, make([]Event, 4))
	q, err := DecodeEventQueue(data)
	require.NoError(t, err)
	assert.Equal(t, 4, q.Capacity())
	assert.Equal(t, uint64(9), q.SeqNum)
	assert.Empty(t, q.Pending())
}

func TestDecodeEventQueuePendingWrap(t *testing.T) {
	ring := make([]Event, 4)
	ring[2] = Event{Flags: EventFill | EventBid | EventMaker, NativeQtyPaid: 500, NativeFeeOrRebate: 2, Owner: pk(9), ClientOrderID: 70}
	ring[3] = Event{Flags: EventFill | EventMaker, NativeQtyPaid: 600, Owner: pk(9), ClientOrderID: 71}
	ring[0] = Event{Flags: EventOut, NativeQtyReleased: 100, Owner: pk(8), ClientOrderID: 72}

	// three pending events starting at slot 2, wrapping around to slot 0
	q, err := DecodeEventQueue(buildQueue(2, 3, 42, ring))
	require.NoError(t, err)

	pending := q.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, uint64(70), pending[0].ClientOrderID)
	assert.Equal(t, uint64(71), pending[1].ClientOrderID)
	assert.Equal(t, uint64(72), pending[2].ClientOrderID)

	assert.True(t, pending[0].Flags.IsFill())
	assert.True(t, pending[0].Flags.IsBid())
	assert.True(t, pending[0].Flags.IsMaker())
	assert.True(t, pending[1].Flags.IsFill())
	assert.False(t, pending[1].Flags.IsBid())
	assert.False(t, pending[2].Flags.IsFill())
	assert.Equal(t, uint64(500), pending[0].NativeQtyPaid)
	assert.Equal(t, uint64(2), pending[0].NativeFeeOrRebate)
}

func TestDecodeEventQueueCountClamped(t *testing.T) {
	// count larger than capacity must not loop forever or panic
	q, err := DecodeEventQueue(buildQueue(1, 10, 0, make([]Event, 4)))
	require.NoError(t, err)
	assert.Len(t, q.Pending(), 4)
}

func TestDecodeEventQueueBadRingSize(t *testing.T) {
	data := buildQueue(0, 0, 0, make([]Event, 2))
	// chop one byte off the last event but keep the tail marker intact
	broken := append(append([]byte{}, data[:len(data)-len(accountTail)-1]...), accountTail...)
	_, err := DecodeEventQueue(broken)
	assert.ErrorContains(t, err, "not a multiple")
}

func TestDecodeEventQueueHeadOutOfRange(t *testing.T) {
	_, err := DecodeEventQueue(buildQueue(4, 0, 0, make([]Event, 4)))
	assert.ErrorContains(t, err, "out of range")
}

func TestEventQueuePushPop(t *testing.T) {
	q := NewEventQueue(2)

	_, err := q.PopFront()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	require.NoError(t, q.PushBack(Event{ClientOrderID: 1}))
	require.NoError(t, q.PushBack(Event{ClientOrderID: 2}))
	assert.ErrorIs(t, q.PushBack(Event{ClientOrderID: 3}), ErrQueueFull)
	assert.Equal(t, uint64(2), q.SeqNum)

	e, err := q.PopFront()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.ClientOrderID)

	// freed slot accepts a new event, and order stays FIFO across the wrap
	require.NoError(t, q.PushBack(Event{ClientOrderID: 3}))
	pending := q.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, uint64(2), pending[0].ClientOrderID)
	assert.Equal(t, uint64(3), pending[1].ClientOrderID)

	e, err = q.PopFront()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.ClientOrderID)
	e, err = q.PopFront()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), e.ClientOrderID)
	_, err = q.PopFront()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestDecodeEventQueueTooSmall(t *testing.T) {
	_, err := DecodeEventQueue([]byte("serumpadding"))
	assert.ErrorContains(t, err, "too small")
}
