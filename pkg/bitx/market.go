package bitx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Ticker is a snapshot of the best bid/ask, the last trade price, and the
// rolling 24 hour volume for a currency pair.
type Ticker struct {
	Pair      Pair            `json:"pair"`
	Timestamp Time            `json:"timestamp"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	LastTrade decimal.Decimal `json:"last_trade"`
	Volume24h decimal.Decimal `json:"rolling_24_hour_volume"`
}

// GetTicker returns the current ticker for one currency pair.
func (c *Client) GetTicker(ctx context.Context, pair Pair) (*Ticker, error) {
	var out Ticker
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "ticker",
		query:  url.Values{"pair": {pair.String()}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTickers returns tickers for every currency pair on the exchange.
func (c *Client) GetTickers(ctx context.Context) ([]Ticker, error) {
	var out struct {
		Tickers []Ticker `json:"tickers"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "tickers",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Tickers, nil
}

// OrderBookEntry is one price level in the order book. Orders at the same
// price are aggregated into a single entry.
type OrderBookEntry struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// OrderBook is the set of outstanding bids and asks for a pair. Bids are
// sorted descending and asks ascending by price.
type OrderBook struct {
	Timestamp Time             `json:"timestamp"`
	Bids      []OrderBookEntry `json:"bids"`
	Asks      []OrderBookEntry `json:"asks"`
}

// GetOrderBook returns the current order book for a currency pair.
func (c *Client) GetOrderBook(ctx context.Context, pair Pair) (*OrderBook, error) {
	var out OrderBook
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "orderbook",
		query:  url.Values{"pair": {pair.String()}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Trade is a single completed trade on the public trade feed. IsBuy reports
// whether the taker was buying the base currency.
type Trade struct {
	Timestamp Time            `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	IsBuy     bool            `json:"is_buy"`
}

// GetTrades returns the most recent public trades for a pair. If since is
// non-zero, only trades after that instant are returned; the service caps
// the window at 24 hours.
func (c *Client) GetTrades(ctx context.Context, pair Pair, since time.Time) ([]Trade, error) {
	query := url.Values{"pair": {pair.String()}}
	if !since.IsZero() {
		query.Set("since", strconv.FormatInt(since.UnixMilli(), 10))
	}

	var out struct {
		Trades []Trade `json:"trades"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "trades",
		query:  query,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Trades, nil
}
