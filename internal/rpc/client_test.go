package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:      url,
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})
}

func TestGetMultipleAccounts(t *testing.T) {
	keyA := solana.NewWallet().PublicKey()
	keyB := solana.NewWallet().PublicKey()
	dataA := []byte{1, 2, 3, 4}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getMultipleAccounts", req["method"])

		params := req["params"].([]interface{})
		addrs := params[0].([]interface{})
		require.Len(t, addrs, 2)
		assert.Equal(t, keyA.String(), addrs[0])
		opts := params[1].(map[string]interface{})
		assert.Equal(t, "base64", opts["encoding"])

		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":9000},"value":[
			{"data":["%s","base64"],"owner":"o","lamports":1},
			null
		]}}`, base64.StdEncoding.EncodeToString(dataA))
	}))
	defer srv.Close()

	accounts, slot, err := newTestClient(srv.URL).GetMultipleAccounts(context.Background(), []solana.PublicKey{keyA, keyB})
	require.NoError(t, err)
	assert.Equal(t, uint64(9000), slot)
	require.Len(t, accounts, 2)
	assert.Equal(t, dataA, accounts[0])
	assert.Nil(t, accounts[1], "missing account must come back nil")
}

func TestGetMultipleAccountsLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[]}}`)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL).GetMultipleAccounts(context.Background(), []solana.PublicKey{solana.NewWallet().PublicKey()})
	assert.ErrorContains(t, err, "want 1")
}

func TestGetMultipleAccountsRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL).GetMultipleAccounts(context.Background(), []solana.PublicKey{solana.NewWallet().PublicKey()})
	assert.ErrorContains(t, err, "invalid params")
}

func TestCallRetriesOnFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":5},"value":[]}}`)
	}))
	defer srv.Close()

	var result multipleAccountsResponse
	err := newTestClient(srv.URL).Call(context.Background(), "getMultipleAccounts", []interface{}{}, &result)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCallGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var result multipleAccountsResponse
	err := newTestClient(srv.URL).Call(context.Background(), "getMultipleAccounts", []interface{}{}, &result)
	assert.ErrorContains(t, err, "max retries")
	assert.ErrorContains(t, err, "rate limited")
}

func TestGetLatestBlockhash(t *testing.T) {
	hash := solana.NewWallet().PublicKey() // any 32 bytes render as a hash
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":77},"value":{"blockhash":"%s","lastValidBlockHeight":123}}}`, hash.String())
	}))
	defer srv.Close()

	got, height, err := newTestClient(srv.URL).GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash.String(), got.String())
	assert.Equal(t, uint64(123), height)
}
