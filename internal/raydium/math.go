package raydium

import (
	"fmt"

	"solana-amm-quoter/internal/fixedpoint"
)

// ComputeAmountOut prices an exact-input swap against the constant
// product: the swap fee is taken from the input (ceiling division, so
// the pool never undercharges), then
//
//	out = reserveOut - (reserveIn * reserveOut) / (reserveIn + amountInAfterFee)
//
// with every intermediate held in 128 bits. Overflow, division by zero
// and narrowing failures surface as arithmetic errors.
func ComputeAmountOut(amountIn, reserveIn, reserveOut, feeNumerator, feeDenominator uint64) (uint64, error) {
	if feeNumerator >= feeDenominator {
		return 0, fmt.Errorf("raydium: swap fee %d/%d is not below one", feeNumerator, feeDenominator)
	}

	feeWide, err := fixedpoint.FromUint64(amountIn).CheckedMul(fixedpoint.FromUint64(feeNumerator))
	if err != nil {
		return 0, fmt.Errorf("swap fee: %w", err)
	}
	feeQ, _, err := feeWide.CheckedCeilDiv(fixedpoint.FromUint64(feeDenominator))
	if err != nil {
		return 0, fmt.Errorf("swap fee: %w", err)
	}
	fee, err := feeQ.Uint64()
	if err != nil {
		return 0, fmt.Errorf("swap fee: %w", err)
	}
	amountAfterFee := amountIn - fee

	invariant, err := fixedpoint.FromUint64(reserveIn).CheckedMul(fixedpoint.FromUint64(reserveOut))
	if err != nil {
		return 0, fmt.Errorf("invariant: %w", err)
	}
	newReserveIn, err := fixedpoint.FromUint64(reserveIn).CheckedAdd(fixedpoint.FromUint64(amountAfterFee))
	if err != nil {
		return 0, fmt.Errorf("input reserve: %w", err)
	}
	newReserveOut, err := invariant.CheckedDiv(newReserveIn)
	if err != nil {
		return 0, fmt.Errorf("output reserve: %w", err)
	}
	out, err := fixedpoint.FromUint64(reserveOut).CheckedSub(newReserveOut)
	if err != nil {
		return 0, fmt.Errorf("amount out: %w", err)
	}
	amountOut, err := out.Uint64()
	if err != nil {
		return 0, fmt.Errorf("amount out: %w", err)
	}
	return amountOut, nil
}

// ComputeAmountIn prices an exact-output swap: solve the inverse
// constant product for the required input, rounding up, then gross up
// for the swap fee so that the post-fee input still covers it.
func ComputeAmountIn(amountOut, reserveIn, reserveOut, feeNumerator, feeDenominator uint64) (uint64, error) {
	if feeNumerator >= feeDenominator {
		return 0, fmt.Errorf("raydium: swap fee %d/%d is not below one", feeNumerator, feeDenominator)
	}
	if amountOut >= reserveOut {
		return 0, ErrInsufficientLiquidity
	}

	num, err := fixedpoint.FromUint64(reserveIn).CheckedMul(fixedpoint.FromUint64(amountOut))
	if err != nil {
		return 0, fmt.Errorf("amount in: %w", err)
	}
	afterFee, _, err := num.CheckedCeilDiv(fixedpoint.FromUint64(reserveOut - amountOut))
	if err != nil {
		return 0, fmt.Errorf("amount in: %w", err)
	}

	grossed, err := afterFee.CheckedMul(fixedpoint.FromUint64(feeDenominator))
	if err != nil {
		return 0, fmt.Errorf("fee gross-up: %w", err)
	}
	beforeFee, _, err := grossed.CheckedCeilDiv(fixedpoint.FromUint64(feeDenominator - feeNumerator))
	if err != nil {
		return 0, fmt.Errorf("fee gross-up: %w", err)
	}
	amountIn, err := beforeFee.Uint64()
	if err != nil {
		return 0, fmt.Errorf("amount in: %w", err)
	}
	return amountIn, nil
}

// MinAmountOut applies the slippage tolerance to an exact-input quote,
// producing the minimum acceptable output.
func MinAmountOut(amountOut, slippageBps uint64) (uint64, error) {
	if slippageBps > SlippageDenominator {
		return 0, ErrInvalidSlippage
	}
	v, err := fixedpoint.MulDiv(amountOut, SlippageDenominator-slippageBps, SlippageDenominator)
	if err != nil {
		return 0, fmt.Errorf("slippage bound: %w", err)
	}
	return v, nil
}

// MaxAmountIn applies the slippage tolerance to an exact-output quote,
// producing the maximum acceptable input.
func MaxAmountIn(amountIn, slippageBps uint64) (uint64, error) {
	if slippageBps > SlippageDenominator {
		return 0, ErrInvalidSlippage
	}
	v, err := fixedpoint.MulDiv(amountIn, SlippageDenominator+slippageBps, SlippageDenominator)
	if err != nil {
		return 0, fmt.Errorf("slippage bound: %w", err)
	}
	return v, nil
}
