// Package spltoken decodes SPL token program accounts. Only the token
// account layout is needed here, for reading vault balances at a
// consistent slot.
package spltoken

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountSize is the serialized size of an SPL token account.
const AccountSize = 165

// Account state values.
const (
	StateUninitialized uint8 = iota
	StateInitialized
	StateFrozen
)

// Account is a decoded SPL token account.
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64

	Delegate        *solana.PublicKey
	State           uint8
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// DecodeAccount decodes a 165-byte token account.
func DecodeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("spltoken: account size %d, want %d", len(data), AccountSize)
	}
	a := &Account{}
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	a.Amount = binary.LittleEndian.Uint64(data[64:72])

	var err error
	if a.Delegate, err = decodeOptionKey(data[72:108]); err != nil {
		return nil, fmt.Errorf("spltoken: delegate: %w", err)
	}
	a.State = data[108]
	if a.State > StateFrozen {
		return nil, fmt.Errorf("spltoken: unknown account state %d", a.State)
	}
	if a.IsNative, err = decodeOptionU64(data[109:121]); err != nil {
		return nil, fmt.Errorf("spltoken: is_native: %w", err)
	}
	a.DelegatedAmount = binary.LittleEndian.Uint64(data[121:129])
	if a.CloseAuthority, err = decodeOptionKey(data[129:165]); err != nil {
		return nil, fmt.Errorf("spltoken: close_authority: %w", err)
	}
	return a, nil
}

// COption is a u32 tag followed by the value bytes.
func decodeOptionKey(b []byte) (*solana.PublicKey, error) {
	switch binary.LittleEndian.Uint32(b[0:4]) {
	case 0:
		return nil, nil
	case 1:
		var pk solana.PublicKey
		copy(pk[:], b[4:36])
		return &pk, nil
	default:
		return nil, fmt.Errorf("bad option tag %d", binary.LittleEndian.Uint32(b[0:4]))
	}
}

func decodeOptionU64(b []byte) (*uint64, error) {
	switch binary.LittleEndian.Uint32(b[0:4]) {
	case 0:
		return nil, nil
	case 1:
		v := binary.LittleEndian.Uint64(b[4:12])
		return &v, nil
	default:
		return nil, fmt.Errorf("bad option tag %d", binary.LittleEndian.Uint32(b[0:4]))
	}
}
