package raydium

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// PoolConfig is one pool entry in the JSON registry file. The registry
// is an offline alternative to api-v3 discovery for deployments that pin
// their pool set.
type PoolConfig struct {
	Name         string `json:"name"`
	ID           string `json:"id"`
	CoinMint     string `json:"coin_mint"`
	PcMint       string `json:"pc_mint"`
	LpMint       string `json:"lp_mint"`
	CoinDecimals uint8  `json:"coin_decimals"`
	PcDecimals   uint8  `json:"pc_decimals"`
	Authority    string `json:"authority"`
	OpenOrders   string `json:"open_orders"`
	TargetOrders string `json:"target_orders"`
	CoinVault    string `json:"coin_vault"`
	PcVault      string `json:"pc_vault"`

	MarketProgram    string `json:"market_program"`
	MarketID         string `json:"market_id"`
	MarketBids       string `json:"market_bids"`
	MarketAsks       string `json:"market_asks"`
	MarketEventQueue string `json:"market_event_queue"`
	MarketCoinVault  string `json:"market_coin_vault"`
	MarketPcVault    string `json:"market_pc_vault"`
	MarketAuthority  string `json:"market_authority"`
}

type registryEntry struct {
	pool   PoolKeys
	market MarketKeys
}

// Registry holds a static set of fully resolved pools.
type Registry struct {
	entries []registryEntry
}

// NewRegistry loads pool entries from a JSON file.
func NewRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool registry: %w", err)
	}

	var configs []PoolConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse pool registry: %w", err)
	}

	r := &Registry{entries: make([]registryEntry, 0, len(configs))}
	for i, cfg := range configs {
		entry, err := parsePoolConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("pool %d (%s): %w", i, cfg.Name, err)
		}
		r.entries = append(r.entries, entry)
	}
	return r, nil
}

// Resolve satisfies KeySource against the static entries. Entries are
// matched by explicit pool id or by mint pair in either order; file
// order stands in for liquidity rank.
func (r *Registry) Resolve(_ context.Context, inputMint, outputMint solana.PublicKey, explicit *solana.PublicKey) (*PoolKeys, *MarketKeys, error) {
	for _, e := range r.entries {
		if explicit != nil {
			if e.pool.ID.Equals(*explicit) {
				pool, market := e.pool, e.market
				return &pool, &market, nil
			}
			continue
		}
		direct := e.pool.CoinMint.Equals(inputMint) && e.pool.PcMint.Equals(outputMint)
		reversed := e.pool.CoinMint.Equals(outputMint) && e.pool.PcMint.Equals(inputMint)
		if direct || reversed {
			pool, market := e.pool, e.market
			return &pool, &market, nil
		}
	}
	if explicit != nil {
		return nil, nil, fmt.Errorf("%w: id %s", ErrNoPoolFound, explicit)
	}
	return nil, nil, fmt.Errorf("%w: %s/%s", ErrNoPoolFound, inputMint, outputMint)
}

// Len returns the number of registered pools.
func (r *Registry) Len() int {
	return len(r.entries)
}

func parsePoolConfig(cfg PoolConfig) (registryEntry, error) {
	var entry registryEntry
	parse := func(field, v string) (solana.PublicKey, error) {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("%s %q: %w", field, v, err)
		}
		return pk, nil
	}

	var err error
	p := &entry.pool
	m := &entry.market
	p.CoinDecimals = cfg.CoinDecimals
	p.PcDecimals = cfg.PcDecimals

	if p.ID, err = parse("id", cfg.ID); err != nil {
		return entry, err
	}
	if p.CoinMint, err = parse("coin_mint", cfg.CoinMint); err != nil {
		return entry, err
	}
	if p.PcMint, err = parse("pc_mint", cfg.PcMint); err != nil {
		return entry, err
	}
	if p.LpMint, err = parse("lp_mint", cfg.LpMint); err != nil {
		return entry, err
	}
	if p.Authority, err = parse("authority", cfg.Authority); err != nil {
		return entry, err
	}
	if p.OpenOrders, err = parse("open_orders", cfg.OpenOrders); err != nil {
		return entry, err
	}
	if p.TargetOrders, err = parse("target_orders", cfg.TargetOrders); err != nil {
		return entry, err
	}
	if p.CoinVault, err = parse("coin_vault", cfg.CoinVault); err != nil {
		return entry, err
	}
	if p.PcVault, err = parse("pc_vault", cfg.PcVault); err != nil {
		return entry, err
	}
	if p.MarketProgram, err = parse("market_program", cfg.MarketProgram); err != nil {
		return entry, err
	}
	if p.MarketID, err = parse("market_id", cfg.MarketID); err != nil {
		return entry, err
	}
	if m.Bids, err = parse("market_bids", cfg.MarketBids); err != nil {
		return entry, err
	}
	if m.Asks, err = parse("market_asks", cfg.MarketAsks); err != nil {
		return entry, err
	}
	if m.EventQueue, err = parse("market_event_queue", cfg.MarketEventQueue); err != nil {
		return entry, err
	}
	if m.CoinVault, err = parse("market_coin_vault", cfg.MarketCoinVault); err != nil {
		return entry, err
	}
	if m.PcVault, err = parse("market_pc_vault", cfg.MarketPcVault); err != nil {
		return entry, err
	}
	if m.VaultSigner, err = parse("market_authority", cfg.MarketAuthority); err != nil {
		return entry, err
	}
	return entry, nil
}
