package bitx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Balance is the state of one account: the total balance, the amount
// reserved for open orders and pending withdrawals, and the unconfirmed
// amount still awaiting network confirmations.
type Balance struct {
	AccountID   string          `json:"account_id"`
	Asset       Asset           `json:"asset"`
	Balance     decimal.Decimal `json:"balance"`
	Reserved    decimal.Decimal `json:"reserved"`
	Unconfirmed decimal.Decimal `json:"unconfirmed"`
}

// GetBalances returns the balances of all accounts. Requires authentication.
func (c *Client) GetBalances(ctx context.Context) ([]Balance, error) {
	var out struct {
		Balance []Balance `json:"balance"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "balance",
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Balance, nil
}

// FundingAddress is a receive address for an asset, with the totals it has
// received so far.
type FundingAddress struct {
	Asset            Asset           `json:"asset"`
	Address          string          `json:"address"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalUnconfirmed decimal.Decimal `json:"total_unconfirmed"`
}

// GetFundingAddress returns the default receive address for an asset, or
// the given address if it belongs to the account. Requires authentication.
func (c *Client) GetFundingAddress(ctx context.Context, asset Asset, address string) (*FundingAddress, error) {
	query := url.Values{"asset": {asset.String()}}
	if address != "" {
		query.Set("address", address)
	}

	var out FundingAddress
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "funding_address",
		query:  query,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NewFundingAddress allocates a new receive address for an asset. Requires
// authentication.
func (c *Client) NewFundingAddress(ctx context.Context, asset Asset) (*FundingAddress, error) {
	var out FundingAddress
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "funding_address",
		form:   url.Values{"asset": {asset.String()}},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
