// Package fixedpoint provides overflow-checked 128-bit unsigned arithmetic
// for pool pricing math. All operations return an error instead of wrapping,
// clamping, or silently truncating.
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrOverflow     = errors.New("u128 overflow")
	ErrUnderflow    = errors.New("u128 underflow")
	ErrDivideByZero = errors.New("u128 divide by zero")
	ErrConversion   = errors.New("u128 does not fit in uint64")
)

// maxU128 = 2^128 - 1
var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// U128 is an immutable 128-bit unsigned integer. The zero value is 0.
type U128 struct {
	i *big.Int
}

func Zero() U128 {
	return U128{i: new(big.Int)}
}

func FromUint64(v uint64) U128 {
	return U128{i: new(big.Int).SetUint64(v)}
}

// FromBig copies v into a U128, failing when v is negative or wider than
// 128 bits.
func FromBig(v *big.Int) (U128, error) {
	if v.Sign() < 0 {
		return U128{}, ErrUnderflow
	}
	if v.Cmp(maxU128) > 0 {
		return U128{}, ErrOverflow
	}
	return U128{i: new(big.Int).Set(v)}, nil
}

// FromLittleEndian interprets b (up to 16 bytes) as a little-endian unsigned
// integer, matching the on-chain byte order of u128 fields.
func FromLittleEndian(b []byte) (U128, error) {
	if len(b) > 16 {
		return U128{}, ErrOverflow
	}
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	return U128{i: new(big.Int).SetBytes(rev)}, nil
}

func (x U128) big() *big.Int {
	if x.i == nil {
		return new(big.Int)
	}
	return x.i
}

func (x U128) CheckedAdd(y U128) (U128, error) {
	sum := new(big.Int).Add(x.big(), y.big())
	if sum.Cmp(maxU128) > 0 {
		return U128{}, ErrOverflow
	}
	return U128{i: sum}, nil
}

func (x U128) CheckedSub(y U128) (U128, error) {
	if x.big().Cmp(y.big()) < 0 {
		return U128{}, ErrUnderflow
	}
	return U128{i: new(big.Int).Sub(x.big(), y.big())}, nil
}

func (x U128) CheckedMul(y U128) (U128, error) {
	prod := new(big.Int).Mul(x.big(), y.big())
	if prod.Cmp(maxU128) > 0 {
		return U128{}, ErrOverflow
	}
	return U128{i: prod}, nil
}

func (x U128) CheckedDiv(y U128) (U128, error) {
	if y.IsZero() {
		return U128{}, ErrDivideByZero
	}
	return U128{i: new(big.Int).Div(x.big(), y.big())}, nil
}

// CheckedCeilDiv divides rounding up. The second return reports whether a
// remainder existed, i.e. whether rounding actually happened.
func (x U128) CheckedCeilDiv(y U128) (U128, bool, error) {
	if y.IsZero() {
		return U128{}, false, ErrDivideByZero
	}
	q, r := new(big.Int).QuoRem(x.big(), y.big(), new(big.Int))
	if r.Sign() == 0 {
		return U128{i: q}, false, nil
	}
	q.Add(q, big.NewInt(1))
	if q.Cmp(maxU128) > 0 {
		return U128{}, false, ErrOverflow
	}
	return U128{i: q}, true, nil
}

// Uint64 narrows back to 64 bits, failing on truncation.
func (x U128) Uint64() (uint64, error) {
	if !x.big().IsUint64() {
		return 0, ErrConversion
	}
	return x.big().Uint64(), nil
}

func (x U128) Cmp(y U128) int {
	return x.big().Cmp(y.big())
}

func (x U128) IsZero() bool {
	return x.big().Sign() == 0
}

func (x U128) String() string {
	return x.big().String()
}

// MulDiv computes x*y/z with the intermediate product held in full width,
// a convenience for the common fee and slippage pattern.
func MulDiv(x, y, z uint64) (uint64, error) {
	prod, err := FromUint64(x).CheckedMul(FromUint64(y))
	if err != nil {
		return 0, err
	}
	q, err := prod.CheckedDiv(FromUint64(z))
	if err != nil {
		return 0, err
	}
	out, err := q.Uint64()
	if err != nil {
		return 0, fmt.Errorf("muldiv: %w", err)
	}
	return out, nil
}
