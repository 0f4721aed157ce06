package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// QuoteResponse represents a priced swap quote
type QuoteResponse struct {
	Pool                 string `json:"pool"`                 // Pool account the quote was priced against
	InputMint            string `json:"input_mint"`           // Mint spent by the trader
	OutputMint           string `json:"output_mint"`          // Mint received by the trader
	InputDecimals        uint8  `json:"input_decimals"`       // Decimal places of the input mint
	OutputDecimals       uint8  `json:"output_decimals"`      // Decimal places of the output mint
	Amount               string `json:"amount"`               // Fixed side of the swap, base units
	OtherAmount          string `json:"otherAmount"`          // Computed counter-amount, base units
	OtherAmountThreshold string `json:"otherAmountThreshold"` // Slippage-adjusted bound on the counter-amount
	SwapMode             string `json:"swapMode"`             // exact_in or exact_out
	SlippageBps          uint64 `json:"slippageBps"`          // Slippage tolerance applied, basis points
}
