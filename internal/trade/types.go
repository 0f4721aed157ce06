// Package trade turns raw transaction notifications into normalized
// trade records by diffing pre/post token balance snapshots.
package trade

import "github.com/mr-tron/base58"

// Direction is the classified trade side from the target wallet's view.
type Direction int

const (
	Unknown Direction = iota
	Buy
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// UITokenAmount is the decimal-adjusted amount of one balance entry.
type UITokenAmount struct {
	UIAmount float64 `json:"uiAmount"`
	Decimals uint8   `json:"decimals"`
}

// TokenBalance is one pre or post token balance snapshot entry.
type TokenBalance struct {
	Owner         string        `json:"owner"`
	Mint          string        `json:"mint"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// Meta is the transaction metadata the classifier reads.
type Meta struct {
	Err               interface{}    `json:"err"`
	PreTokenBalances  []TokenBalance `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance `json:"postTokenBalances"`
}

// Message carries the account keys and blockhash of the inner
// transaction. The blockhash arrives as raw bytes from the feed.
type Message struct {
	AccountKeys     []string
	RecentBlockhash []byte
}

// Transaction is the inner transaction of a notification. The signature
// arrives as raw bytes and is rendered base58 on the record.
type Transaction struct {
	Signature []byte
	Message   Message
}

// Notification is one event from the transaction feed.
type Notification struct {
	Slot        uint64
	Transaction *Transaction
	Meta        *Meta
}

// Record is the normalized classification result, owned by the handler
// of a single notification and discarded after it.
type Record struct {
	Slot            uint64 `json:"slot"`
	RecentBlockhash string `json:"recent_blockhash"`
	Signature       string `json:"signature"`
	Target          string `json:"target"`
	Mint            string `json:"mint"`
	Pool            string `json:"pool"`
	Decimals        uint8  `json:"decimals"`

	SolPre    float64 `json:"sol_pre"`
	SolPost   float64 `json:"sol_post"`
	TokenPre  float64 `json:"token_pre"`
	TokenPost float64 `json:"token_post"`

	Direction Direction `json:"direction"`
}

func encodeBase58(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base58.Encode(b)
}
