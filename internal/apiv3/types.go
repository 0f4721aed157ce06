package apiv3

// envelope is the common api-v3 response wrapper.
type envelope[T any] struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Data    T      `json:"data"`
}

// Mint describes one side of a pool as reported by the API.
type Mint struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals uint8  `json:"decimals"`
}

// PoolSummary is one entry of a pool search page. The page arrives
// sorted by the requested field, liquidity descending for discovery.
type PoolSummary struct {
	Type      string  `json:"type"`
	ProgramID string  `json:"programId"`
	ID        string  `json:"id"`
	MintA     Mint    `json:"mintA"`
	MintB     Mint    `json:"mintB"`
	TVL       float64 `json:"tvl"`
	Price     float64 `json:"price"`
}

type poolPage struct {
	Count       int           `json:"count"`
	Data        []PoolSummary `json:"data"`
	HasNextPage bool          `json:"hasNextPage"`
}

// PoolKeysInfo is the full key bundle served by the keys-by-id endpoint.
type PoolKeysInfo struct {
	ProgramID string `json:"programId"`
	ID        string `json:"id"`
	MintA     Mint   `json:"mintA"`
	MintB     Mint   `json:"mintB"`
	MintLp    Mint   `json:"mintLp"`

	Vault struct {
		A string `json:"A"`
		B string `json:"B"`
	} `json:"vault"`

	Authority    string `json:"authority"`
	OpenOrders   string `json:"openOrders"`
	TargetOrders string `json:"targetOrders"`

	MarketProgramID  string `json:"marketProgramId"`
	MarketID         string `json:"marketId"`
	MarketAuthority  string `json:"marketAuthority"`
	MarketBaseVault  string `json:"marketBaseVault"`
	MarketQuoteVault string `json:"marketQuoteVault"`
	MarketBids       string `json:"marketBids"`
	MarketAsks       string `json:"marketAsks"`
	MarketEventQueue string `json:"marketEventQueue"`
}
