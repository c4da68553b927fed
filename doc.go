// Package bitxconnector provides a typed Go client for the BitX exchange
// REST and streaming APIs.
//
// The library covers public market data (ticker, order book, trade history)
// and the private account operations (orders, balances, funding addresses,
// withdrawals, sends, and quotes), authenticated with an API key pair over
// HTTP Basic authentication.
//
// # Outcomes
//
// Every call resolves to exactly one of four outcomes. Success returns the
// decoded payload with a nil error; the remaining three are typed errors
// recoverable with errors.As:
//
//   - *bitx.APIError: the service reported a business-level error (invalid
//     pair, insufficient balance, bad auth). Carries the free-text message
//     and the service's error code string.
//
//   - *bitx.TransportError: the request failed below the HTTP layer —
//     connection refused, timeout, TLS failure. Never retried by the
//     client.
//
//   - *bitx.DecodeError: the body matched neither the expected payload nor
//     the error envelope. The raw body is preserved for diagnostics.
//
// Calling a private endpoint without credentials fails immediately with
// bitx.ErrAuthenticationRequired, before any network traffic.
//
// # Precision
//
// All prices, volumes, and balances are decoded into decimal.Decimal
// values. Binary floating point is never used for money.
//
// # Basic usage
//
//	client, err := bitx.NewClient(&bitx.Options{
//	    Credential: &bitx.Credential{
//	        KeyID:  os.Getenv("BITX_API_KEY_ID"),
//	        Secret: os.Getenv("BITX_API_KEY_SECRET"),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ticker, err := client.GetTicker(ctx, bitx.XBTZAR)
//	if err != nil {
//	    var apiErr *bitx.APIError
//	    if errors.As(err, &apiErr) {
//	        log.Fatalf("service error %s: %s", apiErr.Code, apiErr.Message)
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Printf("bid %s ask %s\n", ticker.Bid, ticker.Ask)
//
// # Rate limiting and retries
//
// The client issues exactly one request per call. Callers that want rate
// limiting, bounded retries, or request logging plug a common.PolicyClient
// in as the HTTP transport:
//
//	policy := common.NewPolicyClient(common.DefaultPolicyConfig())
//	client, err := bitx.NewClient(&bitx.Options{HTTPClient: policy})
//
// # Streaming
//
// The streaming package maintains a live order book for one pair over the
// streaming API, resynchronising automatically on connection loss or
// sequence gaps:
//
//	conn, err := streaming.Dial(ctx, bitx.XBTZAR, creds, streaming.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	conn.OnUpdate(func(u streaming.Update) {
//	    if book, ok := conn.OrderBook(); ok && len(book.Bids) > 0 {
//	        fmt.Printf("best bid %s\n", book.Bids[0].Price)
//	    }
//	})
package bitxconnector
