package raydium

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, configs []PoolConfig) string {
	t.Helper()
	data, err := json.Marshal(configs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pools.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func registryConfig(name string, id, coinMint, pcMint byte) PoolConfig {
	return PoolConfig{
		Name:         name,
		ID:           testKey(id).String(),
		CoinMint:     testKey(coinMint).String(),
		PcMint:       testKey(pcMint).String(),
		LpMint:       testKey(5).String(),
		CoinDecimals: 9,
		PcDecimals:   6,
		Authority:    AuthorityID.String(),
		OpenOrders:   testKey(6).String(),
		TargetOrders: testKey(9).String(),
		CoinVault:    testKey(1).String(),
		PcVault:      testKey(2).String(),

		MarketProgram:    OpenBookID.String(),
		MarketID:         testKey(7).String(),
		MarketBids:       testKey(21).String(),
		MarketAsks:       testKey(22).String(),
		MarketEventQueue: testKey(20).String(),
		MarketCoinVault:  testKey(23).String(),
		MarketPcVault:    testKey(24).String(),
		MarketAuthority:  testKey(25).String(),
	}
}

func TestRegistryResolve(t *testing.T) {
	path := writeRegistry(t, []PoolConfig{
		registryConfig("A/B", 50, 3, 4),
		registryConfig("C/D", 51, 13, 14),
	})
	reg, err := NewRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	pool, market, err := reg.Resolve(context.Background(), testKey(3), testKey(4), nil)
	require.NoError(t, err)
	assert.Equal(t, testKey(50), pool.ID)
	assert.Equal(t, testKey(20), market.EventQueue)

	// reversed mint order matches the same entry
	pool, _, err = reg.Resolve(context.Background(), testKey(4), testKey(3), nil)
	require.NoError(t, err)
	assert.Equal(t, testKey(50), pool.ID)
}

func TestRegistryResolveExplicit(t *testing.T) {
	path := writeRegistry(t, []PoolConfig{
		registryConfig("A/B", 50, 3, 4),
		registryConfig("C/D", 51, 13, 14),
	})
	reg, err := NewRegistry(path)
	require.NoError(t, err)

	explicit := testKey(51)
	pool, _, err := reg.Resolve(context.Background(), testKey(3), testKey(4), &explicit)
	require.NoError(t, err)
	assert.Equal(t, testKey(51), pool.ID)

	missing := testKey(99)
	_, _, err = reg.Resolve(context.Background(), testKey(3), testKey(4), &missing)
	assert.ErrorIs(t, err, ErrNoPoolFound)
}

func TestRegistryResolveNoMatch(t *testing.T) {
	path := writeRegistry(t, []PoolConfig{registryConfig("A/B", 50, 3, 4)})
	reg, err := NewRegistry(path)
	require.NoError(t, err)

	_, _, err = reg.Resolve(context.Background(), testKey(13), testKey(14), nil)
	assert.ErrorIs(t, err, ErrNoPoolFound)
}

func TestRegistryBadFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = NewRegistry(path)
	assert.Error(t, err)
}

func TestRegistryBadAddress(t *testing.T) {
	cfg := registryConfig("A/B", 50, 3, 4)
	cfg.CoinVault = "not-a-key!"
	path := writeRegistry(t, []PoolConfig{cfg})
	_, err := NewRegistry(path)
	assert.ErrorContains(t, err, "coin_vault")
}
