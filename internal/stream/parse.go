package stream

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"solana-amm-quoter/internal/trade"
)

// accountKey tolerates both encodings the feed may use: a bare base58
// string or an object with a pubkey field.
type accountKey struct {
	Pubkey string
}

func (k *accountKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Pubkey = s
		return nil
	}
	var obj struct {
		Pubkey string `json:"pubkey"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	k.Pubkey = obj.Pubkey
	return nil
}

// txNotification is the wire shape of one transactionNotification frame.
type txNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Slot        uint64 `json:"slot"`
			Transaction *struct {
				Transaction *struct {
					Signatures []string `json:"signatures"`
					Message    struct {
						AccountKeys     []accountKey `json:"accountKeys"`
						RecentBlockhash string       `json:"recentBlockhash"`
					} `json:"message"`
				} `json:"transaction"`
				Meta *trade.Meta `json:"meta"`
			} `json:"transaction"`
		} `json:"result"`
	} `json:"params"`
}

// parseNotification decodes one feed frame into the classifier's input
// type. Non-notification frames (subscription confirmations, pongs
// rendered as text) return (nil, nil).
func parseNotification(data []byte) (*trade.Notification, error) {
	var wire txNotification
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if wire.Method != "transactionNotification" {
		return nil, nil
	}

	n := &trade.Notification{
		Slot: wire.Params.Result.Slot,
		Meta: nil,
	}
	outer := wire.Params.Result.Transaction
	if outer == nil {
		return n, nil
	}
	n.Meta = outer.Meta

	inner := outer.Transaction
	if inner == nil {
		return n, nil
	}

	tx := &trade.Transaction{}
	if len(inner.Signatures) > 0 {
		sig, err := base58.Decode(inner.Signatures[0])
		if err != nil {
			return nil, fmt.Errorf("decode signature: %w", err)
		}
		tx.Signature = sig
	}
	if inner.Message.RecentBlockhash != "" {
		hash, err := base58.Decode(inner.Message.RecentBlockhash)
		if err != nil {
			return nil, fmt.Errorf("decode blockhash: %w", err)
		}
		tx.Message.RecentBlockhash = hash
	}
	tx.Message.AccountKeys = make([]string, 0, len(inner.Message.AccountKeys))
	for _, k := range inner.Message.AccountKeys {
		tx.Message.AccountKeys = append(tx.Message.AccountKeys, k.Pubkey)
	}
	n.Transaction = tx
	return n, nil
}
