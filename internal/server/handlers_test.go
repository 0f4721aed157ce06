package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"solana-amm-quoter/internal/raydium"
	"solana-amm-quoter/internal/trade"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoter struct {
	quote *raydium.SwapQuote
	err   error
	last  raydium.SwapInput
}

func (f *fakeQuoter) Quote(_ context.Context, in raydium.SwapInput) (*raydium.SwapQuote, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeCache struct {
	items []*trade.Record
	err   error
	limit int64
}

func (f *fakeCache) Recent(_ context.Context, limit int64) ([]*trade.Record, error) {
	f.limit = limit
	return f.items, f.err
}

func (f *fakeCache) Ping(context.Context) error { return nil }

func newTestEcho(h *Handlers) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, h, ServerConfig{QuoteRate: 1000, QuoteBurst: 1000})
	return e
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestEcho(&Handlers{Logger: logrus.New()})

	rec := doRequest(e, "/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestQuoteSuccess(t *testing.T) {
	inMint := solana.NewWallet().PublicKey()
	outMint := solana.NewWallet().PublicKey()
	poolID := solana.NewWallet().PublicKey()

	quoter := &fakeQuoter{quote: &raydium.SwapQuote{
		PoolID:               poolID,
		InputMint:            inMint,
		OutputMint:           outMint,
		InputDecimals:        9,
		OutputDecimals:       6,
		Amount:               10_000,
		OtherAmount:          19_754,
		OtherAmountThreshold: 19_556,
		Mode:                 raydium.ModeExactIn,
	}}
	e := newTestEcho(&Handlers{Quoter: quoter, Logger: logrus.New()})

	rec := doRequest(e, "/v1/quote?inputMint="+inMint.String()+"&outputMint="+outMint.String()+"&amount=10000&slippageBps=100")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, poolID.String(), resp.Pool)
	assert.Equal(t, "10000", resp.Amount)
	assert.Equal(t, "19754", resp.OtherAmount)
	assert.Equal(t, "19556", resp.OtherAmountThreshold)
	assert.Equal(t, "exact_in", resp.SwapMode)
	assert.Equal(t, uint64(100), resp.SlippageBps)

	assert.Equal(t, inMint, quoter.last.InputMint)
	assert.Equal(t, uint64(10_000), quoter.last.Amount)
	assert.Equal(t, raydium.ModeExactIn, quoter.last.Mode)
}

func TestQuoteExactOutMode(t *testing.T) {
	inMint := solana.NewWallet().PublicKey()
	outMint := solana.NewWallet().PublicKey()

	quoter := &fakeQuoter{quote: &raydium.SwapQuote{Mode: raydium.ModeExactOut}}
	e := newTestEcho(&Handlers{Quoter: quoter, Logger: logrus.New()})

	rec := doRequest(e, "/v1/quote?inputMint="+inMint.String()+"&outputMint="+outMint.String()+"&amount=500&swapMode=exact_out")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, raydium.ModeExactOut, quoter.last.Mode)
}

func TestQuoteParamValidation(t *testing.T) {
	inMint := solana.NewWallet().PublicKey().String()
	outMint := solana.NewWallet().PublicKey().String()
	e := newTestEcho(&Handlers{Quoter: &fakeQuoter{}, Logger: logrus.New()})

	cases := []struct {
		name   string
		target string
	}{
		{"missing input mint", "/v1/quote?outputMint=" + outMint + "&amount=1"},
		{"missing output mint", "/v1/quote?inputMint=" + inMint + "&amount=1"},
		{"missing amount", "/v1/quote?inputMint=" + inMint + "&outputMint=" + outMint},
		{"bad input mint", "/v1/quote?inputMint=notakey&outputMint=" + outMint + "&amount=1"},
		{"bad amount", "/v1/quote?inputMint=" + inMint + "&outputMint=" + outMint + "&amount=abc"},
		{"slippage over denominator", "/v1/quote?inputMint=" + inMint + "&outputMint=" + outMint + "&amount=1&slippageBps=10001"},
		{"bad swap mode", "/v1/quote?inputMint=" + inMint + "&outputMint=" + outMint + "&amount=1&swapMode=ExactIn"},
		{"bad pool", "/v1/quote?inputMint=" + inMint + "&outputMint=" + outMint + "&amount=1&pool=zz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(e, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestQuoteErrorMapping(t *testing.T) {
	inMint := solana.NewWallet().PublicKey().String()
	outMint := solana.NewWallet().PublicKey().String()

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"no pool", raydium.ErrNoPoolFound, http.StatusNotFound},
		{"swap disabled", raydium.ErrSwapDisabled, http.StatusUnprocessableEntity},
		{"insufficient liquidity", raydium.ErrInsufficientLiquidity, http.StatusUnprocessableEntity},
		{"order book state", raydium.ErrOrderBookState, http.StatusUnprocessableEntity},
		{"upstream failure", assert.AnError, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(&Handlers{Quoter: &fakeQuoter{err: tc.err}, Logger: logrus.New()})
			rec := doRequest(e, "/v1/quote?inputMint="+inMint+"&outputMint="+outMint+"&amount=1")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestQuoteNotConfigured(t *testing.T) {
	e := newTestEcho(&Handlers{Logger: logrus.New()})
	inMint := solana.NewWallet().PublicKey().String()
	outMint := solana.NewWallet().PublicKey().String()

	rec := doRequest(e, "/v1/quote?inputMint="+inMint+"&outputMint="+outMint+"&amount=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentTrades(t *testing.T) {
	cache := &fakeCache{items: []*trade.Record{
		{Signature: "sig-1", Direction: trade.Buy},
		{Signature: "sig-0", Direction: trade.Sell},
	}}
	e := newTestEcho(&Handlers{Cache: cache, Logger: logrus.New()})

	rec := doRequest(e, "/v1/trades/recent?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), cache.limit)

	var resp struct {
		Items []*trade.Record `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "sig-1", resp.Items[0].Signature)
}

func TestRecentTradesLimitValidation(t *testing.T) {
	e := newTestEcho(&Handlers{Cache: &fakeCache{}, Logger: logrus.New()})

	for _, target := range []string{
		"/v1/trades/recent?limit=0",
		"/v1/trades/recent?limit=201",
		"/v1/trades/recent?limit=abc",
	} {
		rec := doRequest(e, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	e := newTestEcho(&Handlers{Logger: logrus.New()})

	rec := doRequest(e, "/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
