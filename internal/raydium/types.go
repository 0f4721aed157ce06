// Package raydium implements quoting against Raydium AMM v4 pools:
// account layout decoding, effective reserve accounting (including funds
// resting on the associated OpenBook market), constant-product pricing
// and the quote orchestration around a single batched account fetch.
package raydium

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// Raydium AMM v4 well-known addresses.
var (
	ProgramID    = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	AuthorityID  = solana.MustPublicKeyFromBase58("5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1")
	WSOLMint     = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	OpenBookID   = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	TokenProgram = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

// SlippageDenominator is the fixed basis-point denominator.
const SlippageDenominator = 10000

var (
	// ErrSameMint is returned when a swap requests identical input and
	// output mints. Caller error, never retried.
	ErrSameMint = errors.New("raydium: input and output mint are identical")
	// ErrNoPoolFound is returned when pool discovery yields no match for
	// an asset pair.
	ErrNoPoolFound = errors.New("raydium: no pool found for mint pair")
	// ErrAccountMissing is returned when the batched fetch comes back
	// without one of the required accounts.
	ErrAccountMissing = errors.New("raydium: required account missing")
	// ErrLayout wraps every buffer-size mismatch. Non-retryable: it
	// indicates a protocol version mismatch.
	ErrLayout = errors.New("raydium: account layout mismatch")
	// ErrOrderBookState is returned when the pool status requires
	// order-book reserve accounting but the order-book accounts cannot
	// be decoded.
	ErrOrderBookState = errors.New("raydium: order book state unavailable")
	// ErrSwapDisabled is returned when the pool status does not permit
	// swapping.
	ErrSwapDisabled = errors.New("raydium: pool status does not permit swaps")
	// ErrInvalidSlippage is returned for slippage settings above 10000 bps.
	ErrInvalidSlippage = errors.New("raydium: slippage above 10000 bps")
	// ErrInsufficientLiquidity is returned when an exact-out request asks
	// for the entire output reserve or more.
	ErrInsufficientLiquidity = errors.New("raydium: insufficient liquidity for requested output")
)

// SwapMode selects whether the requested amount denotes the input or the
// output side of the swap.
type SwapMode int

const (
	ModeExactIn SwapMode = iota
	ModeExactOut
)

func (m SwapMode) String() string {
	if m == ModeExactOut {
		return "exact_out"
	}
	return "exact_in"
}

// PoolKeys holds every resolved address needed to read or act on a pool.
// Resolved once per quote and immutable afterwards.
type PoolKeys struct {
	ID            solana.PublicKey
	CoinMint      solana.PublicKey
	PcMint        solana.PublicKey
	LpMint        solana.PublicKey
	CoinDecimals  uint8
	PcDecimals    uint8
	Authority     solana.PublicKey
	OpenOrders    solana.PublicKey
	TargetOrders  solana.PublicKey
	CoinVault     solana.PublicKey
	PcVault       solana.PublicKey
	MarketProgram solana.PublicKey
	MarketID      solana.PublicKey
	Nonce         uint8
}

// MarketKeys holds the OpenBook-side addresses, co-resolved with PoolKeys.
type MarketKeys struct {
	EventQueue  solana.PublicKey
	Bids        solana.PublicKey
	Asks        solana.PublicKey
	CoinVault   solana.PublicKey
	PcVault     solana.PublicKey
	VaultSigner solana.PublicKey
}

// SwapInput is one quote request.
type SwapInput struct {
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64
	Mode        SwapMode
	SlippageBps uint64
	// Pool pins the quote to an explicit pool id, skipping discovery.
	Pool *solana.PublicKey
}

// Validate applies the caller-side constraints before any I/O happens.
func (in SwapInput) Validate() error {
	if in.InputMint.Equals(in.OutputMint) {
		return ErrSameMint
	}
	if in.SlippageBps > SlippageDenominator {
		return ErrInvalidSlippage
	}
	return nil
}

// SwapQuote is the immutable pricing result handed to the transaction
// builder. OtherAmount is the computed counter-amount; the threshold is
// the slippage-adjusted execution bound (minimum out for exact-in,
// maximum in for exact-out).
type SwapQuote struct {
	PoolID               solana.PublicKey
	InputMint            solana.PublicKey
	OutputMint           solana.PublicKey
	InputDecimals        uint8
	OutputDecimals       uint8
	Amount               uint64
	OtherAmount          uint64
	OtherAmountThreshold uint64
	Mode                 SwapMode
}
