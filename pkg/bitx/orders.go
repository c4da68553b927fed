package bitx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Order is a limit order on the exchange. Base and Counter accumulate the
// amounts traded so far; the fee fields accumulate the fees charged against
// each side.
type Order struct {
	ID                  string          `json:"order_id"`
	Pair                Pair            `json:"pair"`
	Type                OrderType       `json:"type"`
	State               OrderStatus     `json:"state"`
	CreationTimestamp   Time            `json:"creation_timestamp"`
	ExpirationTimestamp Time            `json:"expiration_timestamp"`
	CompletedTimestamp  Time            `json:"completed_timestamp"`
	LimitPrice          decimal.Decimal `json:"limit_price"`
	LimitVolume         decimal.Decimal `json:"limit_volume"`
	Base                decimal.Decimal `json:"base"`
	Counter             decimal.Decimal `json:"counter"`
	FeeBase             decimal.Decimal `json:"fee_base"`
	FeeCounter          decimal.Decimal `json:"fee_counter"`
}

// ListOrdersRequest filters the order list. Zero values mean no filtering
// on that dimension.
type ListOrdersRequest struct {
	Pair  Pair
	State OrderStatus
}

// ListOrders returns the most recent orders, optionally filtered by pair
// and state. Requires authentication.
func (c *Client) ListOrders(ctx context.Context, req ListOrdersRequest) ([]Order, error) {
	query := url.Values{}
	if req.Pair != "" {
		query.Set("pair", req.Pair.String())
	}
	if req.State != "" {
		query.Set("state", string(req.State))
	}

	var out struct {
		Orders []Order `json:"orders"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "listorders",
		query:  query,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder returns one order by ID. Requires authentication.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "orders/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PostLimitOrder places a limit order to buy (BID) or sell (ASK) volume of
// the base currency at the given price, and returns the new order's ID.
// Requires authentication.
func (c *Client) PostLimitOrder(ctx context.Context, pair Pair, orderType OrderType, volume, price decimal.Decimal) (string, error) {
	var out struct {
		OrderID string `json:"order_id"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "postorder",
		form: url.Values{
			"pair":   {pair.String()},
			"type":   {orderType.String()},
			"volume": {volume.String()},
			"price":  {price.String()},
		},
		auth: true,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.OrderID, nil
}

// PostMarketOrder places a market order and returns the new order's ID. A
// BUY spends amount of the counter currency; a SELL sells amount of the
// base currency. Requires authentication.
func (c *Client) PostMarketOrder(ctx context.Context, pair Pair, side Side, amount decimal.Decimal) (string, error) {
	form := url.Values{
		"pair": {pair.String()},
		"type": {side.String()},
	}
	switch side {
	case BUY:
		form.Set("counter_volume", amount.String())
	case SELL:
		form.Set("base_volume", amount.String())
	}

	var out struct {
		OrderID string `json:"order_id"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "marketorder",
		form:   form,
		auth:   true,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.OrderID, nil
}

// StopOrder requests cancellation of an open order. It reports false when
// the order could not be stopped, typically because it already completed.
// Requires authentication.
func (c *Client) StopOrder(ctx context.Context, id string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "stoporder",
		form:   url.Values{"order_id": {id}},
		auth:   true,
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// AccountTrade is one fill on the caller's own orders, as returned by the
// private trade listing (richer than the public Trade feed).
type AccountTrade struct {
	Pair       Pair            `json:"pair"`
	OrderID    string          `json:"order_id"`
	Type       OrderType       `json:"type"`
	Timestamp  Time            `json:"timestamp"`
	Price      decimal.Decimal `json:"price"`
	Volume     decimal.Decimal `json:"volume"`
	Base       decimal.Decimal `json:"base"`
	Counter    decimal.Decimal `json:"counter"`
	FeeBase    decimal.Decimal `json:"fee_base"`
	FeeCounter decimal.Decimal `json:"fee_counter"`
	IsBuy      bool            `json:"is_buy"`
}

// ListTrades returns the caller's own trades for a pair, oldest first.
// Requires authentication.
func (c *Client) ListTrades(ctx context.Context, pair Pair) ([]AccountTrade, error) {
	var out struct {
		Trades []AccountTrade `json:"trades"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "listtrades",
		query:  url.Values{"pair": {pair.String()}},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Trades, nil
}
