package serum

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"solana-amm-quoter/internal/fixedpoint"
)

var (
	ErrQueueFull  = errors.New("serum: event queue full")
	ErrQueueEmpty = errors.New("serum: event queue empty")
)

// EventFlags is the bitset carried by every queue event.
type EventFlags uint8

const (
	EventFill EventFlags = 1 << iota
	EventOut
	EventBid
	EventMaker
	EventReleaseFunds
)

func (f EventFlags) IsFill() bool  { return f&EventFill != 0 }
func (f EventFlags) IsBid() bool   { return f&EventBid != 0 }
func (f EventFlags) IsMaker() bool { return f&EventMaker != 0 }

const (
	queueHeaderSize = 32
	eventSize       = 88
)

// Event is a single 88-byte entry in the event queue ring buffer.
type Event struct {
	Flags    EventFlags
	OwnerSlot uint8
	FeeTier   uint8

	NativeQtyReleased uint64
	NativeQtyPaid     uint64
	NativeFeeOrRebate uint64

	OrderID       fixedpoint.U128
	Owner         solana.PublicKey
	ClientOrderID uint64
}

// EventQueue is a decoded event queue account: a header followed by a
// fixed-capacity ring of events. Head indexes the oldest pending event
// and Count is the number of pending events from there.
type EventQueue struct {
	AccountFlags uint64
	Head         uint64
	Count        uint64
	SeqNum       uint64

	ring []Event
}

// DecodeEventQueue decodes an event queue account of any capacity. The
// payload between the framing markers must be a 32-byte header plus a
// whole number of 88-byte events.
func DecodeEventQueue(data []byte) (*EventQueue, error) {
	framing := len(accountHead) + len(accountTail)
	if len(data) < framing+queueHeaderSize {
		return nil, fmt.Errorf("event queue: account size %d too small", len(data))
	}
	payload, err := stripFraming(data, len(data))
	if err != nil {
		return nil, fmt.Errorf("event queue: %w", err)
	}
	if (len(payload)-queueHeaderSize)%eventSize != 0 {
		return nil, fmt.Errorf("event queue: ring size %d not a multiple of %d", len(payload)-queueHeaderSize, eventSize)
	}

	r := &reader{buf: payload}
	q := &EventQueue{
		AccountFlags: r.u64(),
		Head:         r.u64(),
		Count:        r.u64(),
		SeqNum:       r.u64(),
	}

	capacity := (len(payload) - queueHeaderSize) / eventSize
	q.ring = make([]Event, capacity)
	for i := range q.ring {
		q.ring[i] = decodeEvent(r)
	}
	if capacity > 0 && q.Head >= uint64(capacity) {
		return nil, fmt.Errorf("event queue: head %d out of range for capacity %d", q.Head, capacity)
	}
	return q, nil
}

func decodeEvent(r *reader) Event {
	e := Event{
		Flags:     EventFlags(r.u8()),
		OwnerSlot: r.u8(),
		FeeTier:   r.u8(),
	}
	r.skip(5)
	e.NativeQtyReleased = r.u64()
	e.NativeQtyPaid = r.u64()
	e.NativeFeeOrRebate = r.u64()
	e.OrderID = r.u128()
	e.Owner = r.pubkey()
	e.ClientOrderID = r.u64()
	return e
}

// NewEventQueue creates an empty in-memory queue with the given ring
// capacity, useful for building local state that mirrors the on-chain
// structure.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{ring: make([]Event, capacity)}
}

// PushBack appends an event behind the newest pending one. Fails when
// the ring is full.
func (q *EventQueue) PushBack(e Event) error {
	if q.Count >= uint64(len(q.ring)) {
		return ErrQueueFull
	}
	q.ring[(q.Head+q.Count)%uint64(len(q.ring))] = e
	q.Count++
	q.SeqNum++
	return nil
}

// PopFront removes and returns the oldest pending event. Fails when the
// queue is empty.
func (q *EventQueue) PopFront() (Event, error) {
	if q.Count == 0 || len(q.ring) == 0 {
		return Event{}, ErrQueueEmpty
	}
	e := q.ring[q.Head]
	q.Head = (q.Head + 1) % uint64(len(q.ring))
	q.Count--
	return e, nil
}

// Capacity returns the number of event slots in the ring.
func (q *EventQueue) Capacity() int {
	return len(q.ring)
}

// Pending returns the pending events in queue order, walking the ring
// from Head for Count entries and wrapping at capacity.
func (q *EventQueue) Pending() []Event {
	if len(q.ring) == 0 || q.Count == 0 {
		return nil
	}
	count := q.Count
	if count > uint64(len(q.ring)) {
		count = uint64(len(q.ring))
	}
	out := make([]Event, 0, count)
	for i := uint64(0); i < count; i++ {
		out = append(out, q.ring[(q.Head+i)%uint64(len(q.ring))])
	}
	return out
}
