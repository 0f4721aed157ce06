package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"solana-amm-quoter/internal/raydium"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
)

// Quote prices a swap between two mints against the live pool state.
// Accepts inputMint, outputMint, amount, and optional slippageBps,
// swapMode (exact_in or exact_out) and pool query parameters.
func (h *Handlers) Quote(c echo.Context) error {
	if h.Quoter == nil {
		return h.err(c, http.StatusBadRequest, "quoter is not configured", nil)
	}

	inputStr := strings.TrimSpace(c.QueryParam("inputMint"))
	outputStr := strings.TrimSpace(c.QueryParam("outputMint"))
	amountStr := strings.TrimSpace(c.QueryParam("amount"))

	if inputStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "required"})
	}
	if outputStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "required"})
	}
	if amountStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "required"})
	}

	inputMint, err := solana.PublicKeyFromBase58(inputStr)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "must be a base58 public key"})
	}
	outputMint, err := solana.PublicKeyFromBase58(outputStr)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "must be a base58 public key"})
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
	}

	slippageBps := uint64(100)
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n > raydium.SlippageDenominator {
			return h.err(c, http.StatusBadRequest, "invalid slippageBps", map[string]any{"slippageBps": "must be 0..10000"})
		}
		slippageBps = n
	}

	mode := raydium.ModeExactIn
	switch strings.TrimSpace(c.QueryParam("swapMode")) {
	case "", "exact_in":
	case "exact_out":
		mode = raydium.ModeExactOut
	default:
		return h.err(c, http.StatusBadRequest, "invalid swapMode", map[string]any{"swapMode": "must be exact_in or exact_out"})
	}

	var pool *solana.PublicKey
	if v := strings.TrimSpace(c.QueryParam("pool")); v != "" {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid pool", map[string]any{"pool": "must be a base58 public key"})
		}
		pool = &pk
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.Quoter.Quote(ctx, raydium.SwapInput{
		InputMint:   inputMint,
		OutputMint:  outputMint,
		Amount:      amount,
		Mode:        mode,
		SlippageBps: slippageBps,
		Pool:        pool,
	})
	if err != nil {
		return h.quoteError(c, err)
	}

	return c.JSON(http.StatusOK, QuoteResponse{
		Pool:                 quote.PoolID.String(),
		InputMint:            quote.InputMint.String(),
		OutputMint:           quote.OutputMint.String(),
		InputDecimals:        quote.InputDecimals,
		OutputDecimals:       quote.OutputDecimals,
		Amount:               strconv.FormatUint(quote.Amount, 10),
		OtherAmount:          strconv.FormatUint(quote.OtherAmount, 10),
		OtherAmountThreshold: strconv.FormatUint(quote.OtherAmountThreshold, 10),
		SwapMode:             quote.Mode.String(),
		SlippageBps:          slippageBps,
	})
}

// quoteError maps pricing failures onto HTTP status codes.
func (h *Handlers) quoteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, raydium.ErrSameMint), errors.Is(err, raydium.ErrInvalidSlippage):
		return h.err(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, raydium.ErrNoPoolFound):
		return h.err(c, http.StatusNotFound, "no pool found for mint pair", nil)
	case errors.Is(err, raydium.ErrSwapDisabled),
		errors.Is(err, raydium.ErrInsufficientLiquidity),
		errors.Is(err, raydium.ErrOrderBookState):
		return h.err(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("quote failed")
		}
		return h.err(c, http.StatusBadGateway, "quote failed", map[string]any{"err": err.Error()})
	}
}
