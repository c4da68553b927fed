package bitx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Withdrawal is one fiat withdrawal request and its current state.
type Withdrawal struct {
	ID        string          `json:"id"`
	Status    RequestStatus   `json:"status"`
	Type      WithdrawalType  `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	CreatedAt Time            `json:"created_at"`
}

// ListWithdrawals returns all withdrawal requests, most recent first.
// Requires authentication.
func (c *Client) ListWithdrawals(ctx context.Context) ([]Withdrawal, error) {
	var out struct {
		Withdrawals []Withdrawal `json:"withdrawals"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "withdrawals/",
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Withdrawals, nil
}

// NewWithdrawal creates a withdrawal request for amount, routed by the
// given withdrawal type. Requires authentication.
func (c *Client) NewWithdrawal(ctx context.Context, withdrawalType WithdrawalType, amount decimal.Decimal) (*Withdrawal, error) {
	var out Withdrawal
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "withdrawals/",
		form: url.Values{
			"type":   {withdrawalType.String()},
			"amount": {amount.String()},
		},
		auth: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWithdrawal returns one withdrawal request by ID. Requires
// authentication.
func (c *Client) GetWithdrawal(ctx context.Context, id string) (*Withdrawal, error) {
	var out Withdrawal
	err := c.call(ctx, endpoint{
		method: http.MethodGet,
		path:   "withdrawals/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelWithdrawal cancels a pending withdrawal request and returns its
// final state. Requires authentication.
func (c *Client) CancelWithdrawal(ctx context.Context, id string) (*Withdrawal, error) {
	var out Withdrawal
	err := c.call(ctx, endpoint{
		method: http.MethodDelete,
		path:   "withdrawals/" + id,
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRequest describes a crypto send to an external address.
type SendRequest struct {
	Amount   decimal.Decimal
	Currency Asset
	Address  string

	// Description is an optional note for the sender's own records.
	Description string

	// Message is an optional message to the recipient, where the network
	// supports one.
	Message string
}

// Send transfers crypto from the account to an external address. It reports
// whether the send was accepted. Requires authentication.
//
// Sends are irreversible once confirmed; callers should verify the address
// before calling.
func (c *Client) Send(ctx context.Context, req SendRequest) (bool, error) {
	form := url.Values{
		"amount":   {req.Amount.String()},
		"currency": {req.Currency.String()},
		"address":  {req.Address},
	}
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	if req.Message != "" {
		form.Set("message", req.Message)
	}

	var out struct {
		Success bool `json:"success"`
	}
	err := c.call(ctx, endpoint{
		method: http.MethodPost,
		path:   "send",
		form:   form,
		auth:   true,
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Success, nil
}
