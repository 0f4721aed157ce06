// Package serum decodes the OpenBook (Serum v3) account layouts the
// pool reserve accounting depends on: market state, open-orders accounts
// and the event queue ring buffer.
package serum

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"solana-amm-quoter/internal/fixedpoint"
)

// Serum account data is framed by fixed ASCII markers on both ends.
var (
	accountHead = []byte("serum")
	accountTail = []byte("padding")
)

const (
	// MarketStateSize is the full account size including framing.
	MarketStateSize = 388
	// OpenOrdersSize is the full account size including framing.
	OpenOrdersSize = 3228

	openOrdersSlots = 128
)

// MarketState is the decoded market account. Field names follow the
// base/quote convention rather than Serum's coin/pc.
type MarketState struct {
	AccountFlags     uint64
	OwnAddress       solana.PublicKey
	VaultSignerNonce uint64

	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey

	BaseVault         solana.PublicKey
	BaseDepositsTotal uint64
	BaseFeesAccrued   uint64

	QuoteVault         solana.PublicKey
	QuoteDepositsTotal uint64
	QuoteFeesAccrued   uint64
	QuoteDustThreshold uint64

	RequestQueue solana.PublicKey
	EventQueue   solana.PublicKey
	Bids         solana.PublicKey
	Asks         solana.PublicKey

	BaseLotSize  uint64
	QuoteLotSize uint64

	FeeRateBps             uint64
	ReferrerRebatesAccrued uint64
}

// OpenOrders is the decoded open-orders account. The per-slot order id
// and client id arrays are not retained; reserve accounting only needs
// the native token totals and the owner linkage.
type OpenOrders struct {
	AccountFlags uint64
	Market       solana.PublicKey
	Owner        solana.PublicKey

	NativeBaseFree  uint64
	NativeBaseTotal uint64

	NativeQuoteFree  uint64
	NativeQuoteTotal uint64

	FreeSlotBits fixedpoint.U128
	IsBidBits    fixedpoint.U128

	ReferrerRebatesAccrued uint64
}

// stripFraming validates the full account length and the head/tail
// markers and returns the inner payload.
func stripFraming(data []byte, wantSize int) ([]byte, error) {
	if len(data) != wantSize {
		return nil, fmt.Errorf("serum: account size %d, want %d", len(data), wantSize)
	}
	if !bytes.Equal(data[:len(accountHead)], accountHead) {
		return nil, fmt.Errorf("serum: bad head padding %q", data[:len(accountHead)])
	}
	if !bytes.Equal(data[len(data)-len(accountTail):], accountTail) {
		return nil, fmt.Errorf("serum: bad tail padding %q", data[len(data)-len(accountTail):])
	}
	return data[len(accountHead) : len(data)-len(accountTail)], nil
}

// reader walks a framed payload whose length has already been validated,
// so the individual reads cannot run out of bytes.
type reader struct {
	buf []byte
	off int
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) u128() fixedpoint.U128 {
	v, _ := fixedpoint.FromLittleEndian(r.buf[r.off : r.off+16])
	r.off += 16
	return v
}

func (r *reader) pubkey() solana.PublicKey {
	var pk solana.PublicKey
	copy(pk[:], r.buf[r.off:r.off+32])
	r.off += 32
	return pk
}

func (r *reader) skip(n int) {
	r.off += n
}

// DecodeMarketState decodes a 388-byte market account.
func DecodeMarketState(data []byte) (*MarketState, error) {
	payload, err := stripFraming(data, MarketStateSize)
	if err != nil {
		return nil, fmt.Errorf("market state: %w", err)
	}
	r := &reader{buf: payload}
	m := &MarketState{
		AccountFlags:     r.u64(),
		OwnAddress:       r.pubkey(),
		VaultSignerNonce: r.u64(),
		BaseMint:         r.pubkey(),
		QuoteMint:        r.pubkey(),
	}
	m.BaseVault = r.pubkey()
	m.BaseDepositsTotal = r.u64()
	m.BaseFeesAccrued = r.u64()
	m.QuoteVault = r.pubkey()
	m.QuoteDepositsTotal = r.u64()
	m.QuoteFeesAccrued = r.u64()
	m.QuoteDustThreshold = r.u64()
	m.RequestQueue = r.pubkey()
	m.EventQueue = r.pubkey()
	m.Bids = r.pubkey()
	m.Asks = r.pubkey()
	m.BaseLotSize = r.u64()
	m.QuoteLotSize = r.u64()
	m.FeeRateBps = r.u64()
	m.ReferrerRebatesAccrued = r.u64()
	return m, nil
}

// DecodeOpenOrders decodes a 3228-byte open-orders account.
func DecodeOpenOrders(data []byte) (*OpenOrders, error) {
	payload, err := stripFraming(data, OpenOrdersSize)
	if err != nil {
		return nil, fmt.Errorf("open orders: %w", err)
	}
	r := &reader{buf: payload}
	o := &OpenOrders{
		AccountFlags:     r.u64(),
		Market:           r.pubkey(),
		Owner:            r.pubkey(),
		NativeBaseFree:   r.u64(),
		NativeBaseTotal:  r.u64(),
		NativeQuoteFree:  r.u64(),
		NativeQuoteTotal: r.u64(),
		FreeSlotBits:     r.u128(),
		IsBidBits:        r.u128(),
	}
	r.skip(openOrdersSlots * 16) // order ids
	r.skip(openOrdersSlots * 8)  // client order ids
	o.ReferrerRebatesAccrued = r.u64()
	return o, nil
}
