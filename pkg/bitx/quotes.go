package bitx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Quote is a locked-in price to buy or sell a fixed amount of the base
// currency. A quote can be exercised until ExpiresAt; exercising settles
// the trade at exactly CounterAmount.
type Quote struct {
	ID            string          `json:"id"`
	Type          Side            `json:"type"`
	Pair          Pair            `json:"pair"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	CounterAmount decimal.Decimal `json:"counter_amount"`
	CreatedAt     Time            `json:"created_at"`
	ExpiresAt     Time            `json:"expires_at"`
	Discarded     bool            `json:"discarded"`
	Exercised     bool            `json:"exercised"`
}

// CreateQuote requests a quote to buy or sell baseAmount of the pair's base
// currency. Requires authentication.
func (c *Client) CreateQuote(ctx context.Context, side Side, pair Pair, baseAmount decimal.Decimal) (*Quote, error) {
	var out Quote
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "quotes",
		form: url.Values{
			"type":        {side.String()},
			"pair":        {pair.String()},
			"base_amount": {baseAmount.String()},
		},
		auth: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuote returns one quote by ID. Requires authentication.
func (c *Client) GetQuote(ctx context.Context, id string) (*Quote, error) {
	var out Quote
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "quotes/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExerciseQuote locks in an unexpired quote, settling the trade at the
// quoted amounts. The account must hold sufficient balance; otherwise the
// service reports an API error. Requires authentication.
func (c *Client) ExerciseQuote(ctx context.Context, id string) (*Quote, error) {
	var out Quote
	err := c.call(ctx, endpoint{
		method: http.MethodPut,
		path:   "quotes/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscardQuote discards a quote before it is exercised. Requires
// authentication.
func (c *Client) DiscardQuote(ctx context.Context, id string) (*Quote, error) {
	var out Quote
	err := c.call(ctx, endpoint{
		method: http.MethodDelete,
		path:   "quotes/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
