package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AMM v4 instruction discriminators.
const (
	instructionSwapBaseIn  = 9
	instructionSwapBaseOut = 11
)

// BuildSwapBaseInInstruction constructs the swap-base-in instruction for
// an exact-input trade: amountIn goes in, at least minAmountOut must
// come out or the program aborts.
func BuildSwapBaseInInstruction(
	pool *PoolKeys,
	market *MarketKeys,
	amountIn uint64,
	minAmountOut uint64,
	userSource solana.PublicKey,
	userDestination solana.PublicKey,
	userOwner solana.PublicKey,
) (solana.Instruction, error) {
	accounts, err := swapAccounts(pool, market, userSource, userDestination, userOwner)
	if err != nil {
		return nil, err
	}

	// [0] discriminator, [1:9] amount_in, [9:17] min_amount_out
	data := make([]byte, 17)
	data[0] = instructionSwapBaseIn
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minAmountOut)

	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// BuildSwapBaseOutInstruction constructs the swap-base-out instruction
// for an exact-output trade: exactly amountOut comes out, pulling at
// most maxAmountIn from the user.
func BuildSwapBaseOutInstruction(
	pool *PoolKeys,
	market *MarketKeys,
	maxAmountIn uint64,
	amountOut uint64,
	userSource solana.PublicKey,
	userDestination solana.PublicKey,
	userOwner solana.PublicKey,
) (solana.Instruction, error) {
	accounts, err := swapAccounts(pool, market, userSource, userDestination, userOwner)
	if err != nil {
		return nil, err
	}

	// [0] discriminator, [1:9] max_amount_in, [9:17] amount_out
	data := make([]byte, 17)
	data[0] = instructionSwapBaseOut
	binary.LittleEndian.PutUint64(data[1:9], maxAmountIn)
	binary.LittleEndian.PutUint64(data[9:17], amountOut)

	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// swapAccounts assembles the 18-account list both swap variants share.
// Account order is fixed by the program:
// 0. token program
// 1. amm pool
// 2. amm authority
// 3. amm open orders
// 4. amm target orders
// 5. pool coin vault
// 6. pool pc vault
// 7. market program
// 8. market
// 9. market bids
// 10. market asks
// 11. market event queue
// 12. market coin vault
// 13. market pc vault
// 14. market vault signer
// 15. user source token account
// 16. user destination token account
// 17. user owner (signer)
func swapAccounts(
	pool *PoolKeys,
	market *MarketKeys,
	userSource, userDestination, userOwner solana.PublicKey,
) ([]*solana.AccountMeta, error) {
	if pool == nil || market == nil {
		return nil, fmt.Errorf("pool and market keys are required")
	}

	return []*solana.AccountMeta{
		{PublicKey: TokenProgram, IsWritable: false, IsSigner: false},
		{PublicKey: pool.ID, IsWritable: true, IsSigner: false},
		{PublicKey: pool.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: pool.OpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: pool.TargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: pool.CoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: pool.PcVault, IsWritable: true, IsSigner: false},
		{PublicKey: pool.MarketProgram, IsWritable: false, IsSigner: false},
		{PublicKey: pool.MarketID, IsWritable: true, IsSigner: false},
		{PublicKey: market.Bids, IsWritable: true, IsSigner: false},
		{PublicKey: market.Asks, IsWritable: true, IsSigner: false},
		{PublicKey: market.EventQueue, IsWritable: true, IsSigner: false},
		{PublicKey: market.CoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: market.PcVault, IsWritable: true, IsSigner: false},
		{PublicKey: market.VaultSigner, IsWritable: false, IsSigner: false},
		{PublicKey: userSource, IsWritable: true, IsSigner: false},
		{PublicKey: userDestination, IsWritable: true, IsSigner: false},
		{PublicKey: userOwner, IsWritable: false, IsSigner: true},
	}, nil
}
