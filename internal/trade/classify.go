package trade

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"solana-amm-quoter/internal/raydium"
)

// ErrParse marks a notification that cannot be classified. One bad
// notification is skipped and logged, never fatal to the feed.
var ErrParse = errors.New("trade: unparseable notification")

// Classifier derives trade records from notifications by diffing the
// pre/post token balance sets against a base asset (wrapped SOL unless
// configured otherwise).
type Classifier struct {
	baseMint string
	log      *logrus.Logger
}

func NewClassifier(log *logrus.Logger) *Classifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Classifier{baseMint: raydium.WSOLMint.String(), log: log}
}

// WithBaseMint overrides the base asset, for feeds quoted against
// something other than wrapped SOL.
func (c *Classifier) WithBaseMint(mint string) *Classifier {
	c.baseMint = mint
	return c
}

// Classify builds a Record from one notification. Failed transactions
// and notifications missing the transaction, metadata or a
// recognizable traded mint yield a parse error.
func (c *Classifier) Classify(n *Notification) (*Record, error) {
	if n == nil || n.Transaction == nil {
		return nil, fmt.Errorf("%w: missing transaction", ErrParse)
	}
	if n.Meta == nil {
		return nil, fmt.Errorf("%w: missing metadata", ErrParse)
	}
	if n.Meta.Err != nil {
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrParse, n.Meta.Err)
	}
	if len(n.Transaction.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("%w: no account keys", ErrParse)
	}

	// the fee payer is the wallet whose trade this is
	target := n.Transaction.Message.AccountKeys[0]

	// a post balance held by neither the target nor in the base asset
	// points at the pool account
	pool := ""
	for _, b := range n.Meta.PostTokenBalances {
		if b.Owner != target && b.Mint != c.baseMint {
			pool = b.Owner
			break
		}
	}

	mint, decimals, ok := c.findTradedMint(n.Meta.PostTokenBalances, target, pool)
	if !ok {
		// full exits leave no post balance for the mint
		mint, decimals, ok = c.findTradedMint(n.Meta.PreTokenBalances, target, pool)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no traded mint in balance sets", ErrParse)
	}

	rec := &Record{
		Slot:            n.Slot,
		RecentBlockhash: encodeBase58(n.Transaction.Message.RecentBlockhash),
		Signature:       encodeBase58(n.Transaction.Signature),
		Target:          target,
		Mint:            mint,
		Pool:            pool,
		Decimals:        decimals,

		SolPre:    ownerBalance(n.Meta.PreTokenBalances, target, c.baseMint),
		SolPost:   ownerBalance(n.Meta.PostTokenBalances, target, c.baseMint),
		TokenPre:  ownerBalance(n.Meta.PreTokenBalances, target, mint),
		TokenPost: ownerBalance(n.Meta.PostTokenBalances, target, mint),
	}

	switch {
	case rec.TokenPost > rec.TokenPre:
		rec.Direction = Buy
	case rec.TokenPost < rec.TokenPre:
		rec.Direction = Sell
	default:
		rec.Direction = Unknown
	}

	c.log.WithFields(logrus.Fields{
		"slot":      rec.Slot,
		"target":    rec.Target,
		"mint":      rec.Mint,
		"direction": rec.Direction.String(),
	}).Debug("Trade classified")

	return rec, nil
}

// findTradedMint picks the non-base mint held by the target or the pool.
func (c *Classifier) findTradedMint(balances []TokenBalance, target, pool string) (string, uint8, bool) {
	for _, b := range balances {
		if b.Mint == c.baseMint {
			continue
		}
		if b.Owner == target || (pool != "" && b.Owner == pool) {
			return b.Mint, b.UITokenAmount.Decimals, true
		}
	}
	return "", 0, false
}

func ownerBalance(balances []TokenBalance, owner, mint string) float64 {
	for _, b := range balances {
		if b.Owner == owner && b.Mint == mint {
			return b.UITokenAmount.UIAmount
		}
	}
	return 0
}
