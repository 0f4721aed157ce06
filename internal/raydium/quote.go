package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"solana-amm-quoter/internal/serum"
	"solana-amm-quoter/internal/spltoken"
)

// TargetOrdersSize is the serialized size of the AMM bookkeeping
// account. Its contents are not needed for pricing but its presence and
// size are checked with the rest of the batch.
const TargetOrdersSize = 2208

// AccountFetcher reads raw account data. Data slices are returned in
// request order, nil for accounts that do not exist, all observed at the
// single returned slot so the snapshot cannot tear across slots.
type AccountFetcher interface {
	GetMultipleAccounts(ctx context.Context, keys []solana.PublicKey) ([][]byte, uint64, error)
}

// Quoter computes swap quotes: resolve the pool, fetch every dependent
// account in one round trip, decode, account reserves, price. It holds
// no state between quotes and performs no retries; a failed quote is
// safe to re-run by the caller.
type Quoter struct {
	keys    KeySource
	fetcher AccountFetcher
	log     *logrus.Logger
}

func NewQuoter(keys KeySource, fetcher AccountFetcher, log *logrus.Logger) *Quoter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Quoter{keys: keys, fetcher: fetcher, log: log}
}

// Quote prices one swap request.
func (q *Quoter) Quote(ctx context.Context, in SwapInput) (*SwapQuote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pool, market, err := q.keys.Resolve(ctx, in.InputMint, in.OutputMint, in.Pool)
	if err != nil {
		return nil, err
	}

	snap, err := q.fetchPoolSnapshot(ctx, pool, market)
	if err != nil {
		return nil, err
	}

	if !snap.state.Status.AllowsSwap() {
		return nil, fmt.Errorf("%w: status %s", ErrSwapDisabled, snap.state.Status)
	}

	coin, pc, err := EffectiveReserves(snap.state, snap.coinVault.Amount, snap.pcVault.Amount, snap.openOrders, snap.eventQueue, pool.OpenOrders)
	if err != nil {
		return nil, err
	}

	var reserveIn, reserveOut uint64
	switch {
	case in.InputMint.Equals(snap.state.CoinMint):
		reserveIn, reserveOut = coin, pc
	case in.InputMint.Equals(snap.state.PcMint):
		reserveIn, reserveOut = pc, coin
	default:
		return nil, fmt.Errorf("raydium: pool %s does not trade mint %s", pool.ID, in.InputMint)
	}

	quote := &SwapQuote{
		PoolID:         pool.ID,
		InputMint:      in.InputMint,
		OutputMint:     in.OutputMint,
		InputDecimals:  pool.CoinDecimals,
		OutputDecimals: pool.PcDecimals,
		Amount:         in.Amount,
		Mode:           in.Mode,
	}
	if in.InputMint.Equals(snap.state.PcMint) {
		quote.InputDecimals, quote.OutputDecimals = pool.PcDecimals, pool.CoinDecimals
	}

	switch in.Mode {
	case ModeExactIn:
		out, err := ComputeAmountOut(in.Amount, reserveIn, reserveOut, snap.state.SwapFeeNumerator, snap.state.SwapFeeDenominator)
		if err != nil {
			return nil, err
		}
		bound, err := MinAmountOut(out, in.SlippageBps)
		if err != nil {
			return nil, err
		}
		quote.OtherAmount = out
		quote.OtherAmountThreshold = bound
	case ModeExactOut:
		amountIn, err := ComputeAmountIn(in.Amount, reserveIn, reserveOut, snap.state.SwapFeeNumerator, snap.state.SwapFeeDenominator)
		if err != nil {
			return nil, err
		}
		bound, err := MaxAmountIn(amountIn, in.SlippageBps)
		if err != nil {
			return nil, err
		}
		quote.OtherAmount = amountIn
		quote.OtherAmountThreshold = bound
	default:
		return nil, fmt.Errorf("raydium: unknown swap mode %d", in.Mode)
	}

	q.log.WithFields(logrus.Fields{
		"pool":         pool.ID.String(),
		"slot":         snap.slot,
		"mode":         in.Mode.String(),
		"amount":       in.Amount,
		"other_amount": quote.OtherAmount,
		"threshold":    quote.OtherAmountThreshold,
	}).Debug("Quote computed")

	return quote, nil
}

// poolSnapshot is every decoded account the pricing path needs, all
// read at one slot.
type poolSnapshot struct {
	slot       uint64
	state      *PoolState
	coinVault  *spltoken.Account
	pcVault    *spltoken.Account
	openOrders *serum.OpenOrders
	market     *serum.MarketState
	eventQueue *serum.EventQueue
}

func (q *Quoter) fetchPoolSnapshot(ctx context.Context, pool *PoolKeys, market *MarketKeys) (*poolSnapshot, error) {
	addrs := []solana.PublicKey{
		pool.ID,
		pool.TargetOrders,
		pool.CoinVault,
		pool.PcVault,
		pool.OpenOrders,
		pool.MarketID,
		market.EventQueue,
	}
	names := []string{"pool", "target orders", "coin vault", "pc vault", "open orders", "market", "event queue"}

	accounts, slot, err := q.fetcher.GetMultipleAccounts(ctx, addrs)
	if err != nil {
		return nil, fmt.Errorf("account batch: %w", err)
	}
	if len(accounts) != len(addrs) {
		return nil, fmt.Errorf("account batch: got %d accounts, want %d", len(accounts), len(addrs))
	}
	for i, data := range accounts {
		if data == nil {
			return nil, fmt.Errorf("%w: %s account %s", ErrAccountMissing, names[i], addrs[i])
		}
	}

	snap := &poolSnapshot{slot: slot}

	if snap.state, err = DecodePoolState(accounts[0]); err != nil {
		return nil, q.layoutFailure(err, "pool", pool.ID)
	}
	if len(accounts[1]) != TargetOrdersSize {
		err := fmt.Errorf("%w: target orders size %d, want %d", ErrLayout, len(accounts[1]), TargetOrdersSize)
		return nil, q.layoutFailure(err, "target orders", pool.TargetOrders)
	}
	if snap.coinVault, err = spltoken.DecodeAccount(accounts[2]); err != nil {
		return nil, q.layoutFailure(err, "coin vault", pool.CoinVault)
	}
	if snap.pcVault, err = spltoken.DecodeAccount(accounts[3]); err != nil {
		return nil, q.layoutFailure(err, "pc vault", pool.PcVault)
	}
	if snap.openOrders, err = serum.DecodeOpenOrders(accounts[4]); err != nil {
		return nil, q.layoutFailure(err, "open orders", pool.OpenOrders)
	}
	if snap.market, err = serum.DecodeMarketState(accounts[5]); err != nil {
		return nil, q.layoutFailure(err, "market", pool.MarketID)
	}
	if snap.eventQueue, err = serum.DecodeEventQueue(accounts[6]); err != nil {
		return nil, q.layoutFailure(err, "event queue", market.EventQueue)
	}

	if !snap.market.EventQueue.Equals(market.EventQueue) {
		return nil, fmt.Errorf("raydium: market %s reports event queue %s, resolved keys say %s",
			pool.MarketID, snap.market.EventQueue, market.EventQueue)
	}
	return snap, nil
}

// layoutFailure logs decode failures with the account context the error
// alone cannot carry uniformly: these indicate a protocol version
// mismatch and need to be diagnosable from the log line.
func (q *Quoter) layoutFailure(err error, name string, addr solana.PublicKey) error {
	q.log.WithFields(logrus.Fields{
		"account": addr.String(),
		"kind":    name,
		"error":   err.Error(),
	}).Error("Account decode failed")
	return fmt.Errorf("%s %s: %w", name, addr, err)
}
