package rpc

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// rpcContext carries the slot an RPC result was observed at.
type rpcContext struct {
	Slot uint64 `json:"slot"`
}

// accountInfo is one entry of a getMultipleAccounts result. Data is
// ["<base64>", "base64"]; a missing account arrives as null.
type accountInfo struct {
	Data     []string `json:"data"`
	Owner    string   `json:"owner"`
	Lamports uint64   `json:"lamports"`
}

// multipleAccountsResponse is the response from getMultipleAccounts
type multipleAccountsResponse struct {
	Result struct {
		Context rpcContext     `json:"context"`
		Value   []*accountInfo `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// latestBlockhashResponse is the response from getLatestBlockhash
type latestBlockhashResponse struct {
	Result struct {
		Context rpcContext `json:"context"`
		Value   struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}
