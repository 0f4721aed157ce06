package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"solana-amm-quoter/internal/apiv3"
)

// KeySource resolves the concrete pool to quote against for a mint pair.
// Implemented by the api-v3 backed Resolver and by the static Registry.
type KeySource interface {
	Resolve(ctx context.Context, inputMint, outputMint solana.PublicKey, explicit *solana.PublicKey) (*PoolKeys, *MarketKeys, error)
}

// poolDirectory is the slice of the api-v3 client the resolver needs.
type poolDirectory interface {
	SearchPools(ctx context.Context, mint1, mint2 string) ([]apiv3.PoolSummary, error)
	PoolKeysByID(ctx context.Context, ids []string) ([]apiv3.PoolKeysInfo, error)
}

// Resolver discovers pools through the api-v3 endpoints: a liquidity
// sorted search by mint pair, then key hydration by pool id. The two
// steps hit different endpoints with different payload shapes, which is
// why resolution is not one call.
type Resolver struct {
	dir poolDirectory
	log *logrus.Logger
}

func NewResolver(dir poolDirectory, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{dir: dir, log: log}
}

// Resolve returns the pool and market keys for a mint pair. An explicit
// pool id skips discovery and goes straight to hydration.
func (r *Resolver) Resolve(ctx context.Context, inputMint, outputMint solana.PublicKey, explicit *solana.PublicKey) (*PoolKeys, *MarketKeys, error) {
	poolID := explicit
	if poolID == nil {
		id, err := r.discover(ctx, inputMint, outputMint)
		if err != nil {
			return nil, nil, err
		}
		poolID = &id
	}

	keys, err := r.dir.PoolKeysByID(ctx, []string{poolID.String()})
	if err != nil {
		return nil, nil, fmt.Errorf("hydrate pool keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("%w: id %s", ErrNoPoolFound, poolID)
	}
	return buildKeys(keys[0])
}

// discover picks the first pool of the liquidity-descending page whose
// pair matches in either order and whose program is the AMM v4 program.
func (r *Resolver) discover(ctx context.Context, inputMint, outputMint solana.PublicKey) (solana.PublicKey, error) {
	pools, err := r.dir.SearchPools(ctx, inputMint.String(), outputMint.String())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("pool search: %w", err)
	}

	in, out := inputMint.String(), outputMint.String()
	for _, p := range pools {
		if p.ProgramID != ProgramID.String() {
			continue
		}
		direct := p.MintA.Address == in && p.MintB.Address == out
		reversed := p.MintA.Address == out && p.MintB.Address == in
		if !direct && !reversed {
			continue
		}
		id, err := solana.PublicKeyFromBase58(p.ID)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("pool id %q: %w", p.ID, err)
		}
		r.log.WithFields(logrus.Fields{
			"pool": p.ID,
			"tvl":  p.TVL,
		}).Debug("Pool resolved by mint pair")
		return id, nil
	}
	return solana.PublicKey{}, fmt.Errorf("%w: %s/%s", ErrNoPoolFound, in, out)
}

func buildKeys(info apiv3.PoolKeysInfo) (*PoolKeys, *MarketKeys, error) {
	parse := func(field, v string) (solana.PublicKey, error) {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("pool %s: %s %q: %w", info.ID, field, v, err)
		}
		return pk, nil
	}

	pool := &PoolKeys{CoinDecimals: info.MintA.Decimals, PcDecimals: info.MintB.Decimals}
	market := &MarketKeys{}

	var err error
	if pool.ID, err = parse("id", info.ID); err != nil {
		return nil, nil, err
	}
	if pool.CoinMint, err = parse("mintA", info.MintA.Address); err != nil {
		return nil, nil, err
	}
	if pool.PcMint, err = parse("mintB", info.MintB.Address); err != nil {
		return nil, nil, err
	}
	if pool.LpMint, err = parse("mintLp", info.MintLp.Address); err != nil {
		return nil, nil, err
	}
	if pool.Authority, err = parse("authority", info.Authority); err != nil {
		return nil, nil, err
	}
	if pool.OpenOrders, err = parse("openOrders", info.OpenOrders); err != nil {
		return nil, nil, err
	}
	if pool.TargetOrders, err = parse("targetOrders", info.TargetOrders); err != nil {
		return nil, nil, err
	}
	if pool.CoinVault, err = parse("vault.A", info.Vault.A); err != nil {
		return nil, nil, err
	}
	if pool.PcVault, err = parse("vault.B", info.Vault.B); err != nil {
		return nil, nil, err
	}
	if pool.MarketProgram, err = parse("marketProgramId", info.MarketProgramID); err != nil {
		return nil, nil, err
	}
	if pool.MarketID, err = parse("marketId", info.MarketID); err != nil {
		return nil, nil, err
	}

	if market.EventQueue, err = parse("marketEventQueue", info.MarketEventQueue); err != nil {
		return nil, nil, err
	}
	if market.Bids, err = parse("marketBids", info.MarketBids); err != nil {
		return nil, nil, err
	}
	if market.Asks, err = parse("marketAsks", info.MarketAsks); err != nil {
		return nil, nil, err
	}
	if market.CoinVault, err = parse("marketBaseVault", info.MarketBaseVault); err != nil {
		return nil, nil, err
	}
	if market.PcVault, err = parse("marketQuoteVault", info.MarketQuoteVault); err != nil {
		return nil, nil, err
	}
	if market.VaultSigner, err = parse("marketAuthority", info.MarketAuthority); err != nil {
		return nil, nil, err
	}
	return pool, market, nil
}
