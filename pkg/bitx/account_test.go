package bitx

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalances(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance", r.URL.Path)
		w.Write([]byte(`{"balance":[
			{"account_id":"1224342323","asset":"XBT","balance":"1.005","reserved":"0.1","unconfirmed":"0.0"},
			{"account_id":"2997473","asset":"ZAR","balance":"1000.00","reserved":"0.00","unconfirmed":"0.00"}
		]}`))
	})

	balances, err := client.GetBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, XBT, balances[0].Asset)
	assert.True(t, balances[0].Balance.Equal(decimal.RequireFromString("1.005")))
	assert.True(t, balances[0].Reserved.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, ZAR, balances[1].Asset)
}

func TestGetFundingAddress(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/funding_address", r.URL.Path)
		assert.Equal(t, "XBT", r.URL.Query().Get("asset"))
		assert.Equal(t, "B1tC0InExAMPLE", r.URL.Query().Get("address"))
		w.Write([]byte(`{"asset":"XBT","address":"B1tC0InExAMPLE","total_received":"1.234567","total_unconfirmed":"0.00"}`))
	})

	addr, err := client.GetFundingAddress(context.Background(), XBT, "B1tC0InExAMPLE")
	require.NoError(t, err)
	assert.Equal(t, "B1tC0InExAMPLE", addr.Address)
	assert.True(t, addr.TotalReceived.Equal(decimal.RequireFromString("1.234567")))
}

func TestNewFundingAddress(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/funding_address", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "XBT", r.PostForm.Get("asset"))
		w.Write([]byte(`{"asset":"XBT","address":"B1tC0InFrEsH","total_received":"0.00","total_unconfirmed":"0.00"}`))
	})

	addr, err := client.NewFundingAddress(context.Background(), XBT)
	require.NoError(t, err)
	assert.Equal(t, "B1tC0InFrEsH", addr.Address)
}
