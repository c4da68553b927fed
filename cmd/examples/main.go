package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veiloq/bitx-connector/pkg/bitx"
	"github.com/veiloq/bitx-connector/pkg/common"
	"github.com/veiloq/bitx-connector/pkg/logging"
	"github.com/veiloq/bitx-connector/pkg/ratelimit"
	"github.com/veiloq/bitx-connector/pkg/streaming"
)

func main() {
	logger := logging.NewLogger(logging.WithLevel(logging.DEBUG))

	// Caller-side policy: the client itself never retries or rate limits.
	policy := common.NewPolicyClient(&common.PolicyConfig{
		Timeout: 15 * time.Second,
		RateLimit: ratelimit.Rate{
			Limit:    5,
			Interval: time.Second,
		},
		MaxRetries: 3,
		RetryDelay: time.Second,
		Logger:     logger,
	})

	opts := &bitx.Options{
		HTTPClient: policy,
		Logger:     logger,
	}

	// Credentials are optional for public market data.
	keyID := os.Getenv("BITX_API_KEY_ID")
	secret := os.Getenv("BITX_API_KEY_SECRET")
	if keyID != "" {
		opts.Credential = &bitx.Credential{KeyID: keyID, Secret: secret}
	}

	client, err := bitx.NewClient(opts)
	if err != nil {
		logger.Error("failed to create client", logging.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("fetching ticker")
	ticker, err := client.GetTicker(ctx, bitx.XBTZAR)
	if err != nil {
		var apiErr *bitx.APIError
		if errors.As(err, &apiErr) {
			logger.Error("service rejected request",
				logging.String("code", apiErr.Code),
				logging.String("message", apiErr.Message),
			)
		} else {
			logger.Error("ticker request failed", logging.Error(err))
		}
		os.Exit(1)
	}
	logger.Info("ticker",
		logging.String("pair", ticker.Pair.String()),
		logging.String("bid", ticker.Bid.String()),
		logging.String("ask", ticker.Ask.String()),
		logging.String("last", ticker.LastTrade.String()),
	)

	logger.Info("fetching order book")
	book, err := client.GetOrderBook(ctx, bitx.XBTZAR)
	if err != nil {
		logger.Error("order book request failed", logging.Error(err))
		os.Exit(1)
	}
	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		logger.Info("order book",
			logging.String("best_bid", book.Bids[0].Price.String()),
			logging.String("best_ask", book.Asks[0].Price.String()),
			logging.Int("bids", len(book.Bids)),
			logging.Int("asks", len(book.Asks)),
		)
	}

	if opts.Credential == nil {
		logger.Info("no credentials set, skipping private endpoints")
		return
	}

	balances, err := client.GetBalances(ctx)
	if err != nil {
		logger.Error("balance request failed", logging.Error(err))
		os.Exit(1)
	}
	for _, b := range balances {
		logger.Info("balance",
			logging.String("asset", b.Asset.String()),
			logging.String("balance", b.Balance.String()),
			logging.String("reserved", b.Reserved.String()),
		)
	}

	// Live order book over the streaming API until interrupted.
	conn, err := streaming.Dial(ctx, bitx.XBTZAR, *opts.Credential, streaming.Config{
		Logger: logger,
	})
	if err != nil {
		logger.Error("stream dial failed", logging.Error(err))
		os.Exit(1)
	}
	defer conn.Close()

	conn.OnUpdate(func(u streaming.Update) {
		if book, ok := conn.OrderBook(); ok && len(book.Bids) > 0 && len(book.Asks) > 0 {
			logger.Debug("book update",
				logging.String("best_bid", book.Bids[0].Price.String()),
				logging.String("best_ask", book.Asks[0].Price.String()),
			)
		}
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		logger.Info("shutting down")
	case <-ctx.Done():
	}
}
