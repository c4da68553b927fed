// Package bitx is a typed client for the BitX exchange REST API.
//
// Every endpoint method issues exactly one HTTP round trip and classifies
// the result into one of four outcomes. A nil error means the response body
// parsed as the expected payload. The other three outcomes are typed errors,
// recoverable with errors.As:
//
//   - *APIError: the service reported a business-level error, through the
//     HTTP status or the {"error", "error_code"} envelope in the body.
//   - *TransportError: the request failed below the HTTP layer (connection
//     refused, timeout, TLS failure).
//   - *DecodeError: the body matched neither the expected payload nor the
//     error envelope; the raw body is retained for diagnostics.
//
// The client holds no shared mutable state between calls, so any number of
// calls may run concurrently. Retries, caching, and rate limiting are the
// caller's responsibility; see common.PolicyClient for an opt-in policy
// transport.
package bitx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veiloq/bitx-connector/pkg/common"
	"github.com/veiloq/bitx-connector/pkg/logging"
)

// DefaultBaseURL is the production API base.
const DefaultBaseURL = "https://api.mybitx.com/api/1"

// Credential is an API key pair used for HTTP Basic authentication on
// private endpoints. It is read-only once set and is never written to logs.
type Credential struct {
	KeyID  string
	Secret string
}

// Options configures a Client.
type Options struct {
	// Credential authenticates private endpoints. Leave nil for public
	// market data only; private calls then fail fast with
	// ErrAuthenticationRequired.
	Credential *Credential

	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string

	// HTTPClient executes requests. Defaults to an *http.Client with a
	// 30 second timeout. Plug in a common.PolicyClient for rate limiting
	// and retries.
	HTTPClient common.Doer

	Logger logging.Logger
}

// Client calls the BitX REST API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	creds   *Credential
	http    common.Doer
	logger  logging.Logger
}

// NewClient creates a Client from the given options. A nil options value
// yields an unauthenticated client against the production API.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}

	rawURL := opts.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bitx: invalid base URL %q: %w", rawURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		baseURL: base,
		creds:   opts.Credential,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// endpoint describes one API call: path relative to the base URL, HTTP
// method, query parameters, form body, and whether credentials are
// required. One is built per call and discarded.
type endpoint struct {
	method string
	path   string
	query  url.Values
	form   url.Values
	auth   bool
}

// errorEnvelope is the service's error shape. Older deployments use
// "error_code", newer ones "errorCode"; both are accepted.
type errorEnvelope struct {
	Error        string `json:"error"`
	ErrorCode    string `json:"error_code"`
	ErrorCodeAlt string `json:"errorCode"`
}

func (e *errorEnvelope) code() string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	return e.ErrorCodeAlt
}

// call dispatches one request described by ep and decodes the response into
// out. It is the single entry point for every endpoint method.
func (c *Client) call(ctx context.Context, ep endpoint, out interface{}) error {
	if ep.auth && c.creds == nil {
		return fmt.Errorf("%w: %s %s", ErrAuthenticationRequired, ep.method, ep.path)
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(ep.path, "/")
	if len(ep.query) > 0 {
		u.RawQuery = ep.query.Encode()
	}

	var body io.Reader
	if len(ep.form) > 0 {
		body = strings.NewReader(ep.form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("bitx: building request for %s: %w", ep.path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if ep.auth {
		req.SetBasicAuth(c.creds.KeyID, c.creds.Secret)
	}

	op := ep.method + " " + ep.path
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			logging.String("op", op),
			logging.Error(err),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("request complete",
		logging.String("op", op),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)),
	)

	return decodeResponse(resp.StatusCode, raw, out)
}

// decodeResponse classifies a raw (status, body) pair. The error envelope is
// tried before the payload regardless of status, since the service may
// report errors with a 200; a non-2xx status without a recognisable
// envelope is still an API error. Exactly one outcome results from any
// input.
func decodeResponse(status int, raw []byte, out interface{}) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return &APIError{
			Message:    env.Error,
			Code:       env.code(),
			HTTPStatus: status,
		}
	}

	if status < 200 || status > 299 {
		return &APIError{
			Message:    http.StatusText(status),
			HTTPStatus: status,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Err: err, Raw: raw}
	}
	return nil
}
