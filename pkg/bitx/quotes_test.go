package bitx

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteBody = `{"id":"55555","type":"BUY","pair":"XBTZAR","base_amount":"0.1","counter_amount":"430.00",
	"created_at":1438587108692,"expires_at":1438587408692,"discarded":false,"exercised":false}`

func TestCreateQuote(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quotes", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "BUY", r.PostForm.Get("type"))
		assert.Equal(t, "XBTZAR", r.PostForm.Get("pair"))
		assert.Equal(t, "0.1", r.PostForm.Get("base_amount"))
		w.Write([]byte(quoteBody))
	})

	quote, err := client.CreateQuote(context.Background(), BUY, XBTZAR, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	assert.Equal(t, "55555", quote.ID)
	assert.Equal(t, BUY, quote.Type)
	assert.True(t, quote.CounterAmount.Equal(decimal.RequireFromString("430.00")))
	assert.False(t, quote.Exercised)
}

func TestGetQuote(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quotes/55555", r.URL.Path)
		w.Write([]byte(quoteBody))
	})

	quote, err := client.GetQuote(context.Background(), "55555")
	require.NoError(t, err)
	assert.Equal(t, XBTZAR, quote.Pair)
}

func TestExerciseQuote(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/quotes/55555", r.URL.Path)
		w.Write([]byte(`{"id":"55555","type":"BUY","pair":"XBTZAR","base_amount":"0.1","counter_amount":"430.00",
			"created_at":1438587108692,"expires_at":1438587408692,"discarded":false,"exercised":true}`))
	})

	quote, err := client.ExerciseQuote(context.Background(), "55555")
	require.NoError(t, err)
	assert.True(t, quote.Exercised)
}

func TestDiscardQuote(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/quotes/55555", r.URL.Path)
		w.Write([]byte(`{"id":"55555","type":"BUY","pair":"XBTZAR","base_amount":"0.1","counter_amount":"430.00",
			"created_at":1438587108692,"expires_at":1438587408692,"discarded":true,"exercised":false}`))
	})

	quote, err := client.DiscardQuote(context.Background(), "55555")
	require.NoError(t, err)
	assert.True(t, quote.Discarded)
}

func TestExerciseExpiredQuoteIsAPIError(t *testing.T) {
	client := newAuthServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		w.Write([]byte(`{"error":"Quote has expired","error_code":"ErrQuoteExpired"}`))
	})

	_, err := client.ExerciseQuote(context.Background(), "55555")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ErrQuoteExpired", apiErr.Code)
	assert.Equal(t, http.StatusGone, apiErr.HTTPStatus)
}
