package bitx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Options{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestGetTicker(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ticker", r.URL.Path)
		assert.Equal(t, "XBTZAR", r.URL.Query().Get("pair"))
		w.Write([]byte(`{"pair":"XBTZAR","bid":"4300.00","ask":"4310.00","last_trade":"4305.00","rolling_24_hour_volume":"120.5","timestamp":1438587108692}`))
	})

	ticker, err := client.GetTicker(context.Background(), XBTZAR)
	require.NoError(t, err)

	assert.Equal(t, XBTZAR, ticker.Pair)
	assert.True(t, ticker.Bid.Equal(decimal.RequireFromString("4300.00")), "bid = %s", ticker.Bid)
	assert.True(t, ticker.Ask.Equal(decimal.RequireFromString("4310.00")), "ask = %s", ticker.Ask)
	assert.True(t, ticker.LastTrade.Equal(decimal.RequireFromString("4305.00")))
	assert.True(t, ticker.Volume24h.Equal(decimal.RequireFromString("120.5")))
	assert.True(t, ticker.Timestamp.Equal(time.UnixMilli(1438587108692)))
}

func TestGetTickers(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickers", r.URL.Path)
		w.Write([]byte(`{"tickers":[
			{"pair":"XBTZAR","bid":"4300.00","ask":"4310.00","last_trade":"4305.00","rolling_24_hour_volume":"120.5","timestamp":1438587108692},
			{"pair":"XBTMYR","bid":"1080.00","ask":"1085.00","last_trade":"1082.00","rolling_24_hour_volume":"14.2","timestamp":1438587108692}
		]}`))
	})

	tickers, err := client.GetTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, XBTZAR, tickers[0].Pair)
	assert.Equal(t, XBTMYR, tickers[1].Pair)
}

func TestGetOrderBook(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orderbook", r.URL.Path)
		assert.Equal(t, "XBTZAR", r.URL.Query().Get("pair"))
		w.Write([]byte(`{"timestamp":1438587108692,
			"bids":[{"price":"4300.00","volume":"0.10"},{"price":"4290.00","volume":"2.00"}],
			"asks":[{"price":"4310.00","volume":"0.50"}]}`))
	})

	book, err := client.GetOrderBook(context.Background(), XBTZAR)
	require.NoError(t, err)

	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	assert.True(t, book.Bids[0].Price.Equal(decimal.RequireFromString("4300.00")))
	assert.True(t, book.Asks[0].Volume.Equal(decimal.RequireFromString("0.50")))
}

func TestGetTrades(t *testing.T) {
	since := time.UnixMilli(1438587100000)

	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades", r.URL.Path)
		assert.Equal(t, "XBTZAR", r.URL.Query().Get("pair"))
		assert.Equal(t, "1438587100000", r.URL.Query().Get("since"))
		w.Write([]byte(`{"trades":[
			{"timestamp":1438587108692,"price":"4305.00","volume":"0.03","is_buy":true},
			{"timestamp":1438587108700,"price":"4306.00","volume":"0.10","is_buy":false}
		]}`))
	})

	trades, err := client.GetTrades(context.Background(), XBTZAR, since)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.True(t, trades[0].IsBuy)
	assert.False(t, trades[1].IsBuy)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("4305.00")))
}

func TestGetTradesOmitsZeroSince(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since"))
		w.Write([]byte(`{"trades":[]}`))
	})

	trades, err := client.GetTrades(context.Background(), XBTZAR, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, trades)
}
