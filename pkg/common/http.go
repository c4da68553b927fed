// Package common holds HTTP plumbing shared by the API client packages.
//
// The bitx package deliberately performs exactly one network call per
// invocation, with no retries, caching, or rate limiting; those policies
// belong to the caller. PolicyClient packages the usual caller-side policy
// (token bucket rate limiting, bounded retries on 5xx/429, structured
// request logging) as a Doer that can be plugged into the client.
package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/avast/retry-go"
	"github.com/veiloq/bitx-connector/pkg/logging"
	"github.com/veiloq/bitx-connector/pkg/ratelimit"
)

// Doer is the subset of *http.Client the API client needs. It is
// intentionally small so callers can supply custom transports, wrap in
// tracing, or record fixtures in tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PolicyConfig holds configuration for PolicyClient.
type PolicyConfig struct {
	// Transport executes the actual requests. Defaults to an *http.Client
	// with Timeout applied.
	Transport Doer

	// Timeout applies only to the default transport.
	Timeout time.Duration

	// RateLimit caps the request rate. A zero Limit disables limiting.
	RateLimit ratelimit.Rate

	// Retry configuration. Requests are retried on transport errors and on
	// 5xx/429 responses, up to MaxRetries attempts in total.
	MaxRetries uint
	RetryDelay time.Duration

	// DumpBodies enables debug logging of request and response dumps,
	// truncated to MaxDumpSize bytes. Authorization headers are redacted.
	DumpBodies  bool
	MaxDumpSize int

	Logger logging.Logger
}

// DefaultPolicyConfig returns a conservative default configuration.
func DefaultPolicyConfig() *PolicyConfig {
	return &PolicyConfig{
		Timeout: 30 * time.Second,
		RateLimit: ratelimit.Rate{
			Limit:    10,
			Interval: time.Second,
		},
		MaxRetries:  3,
		RetryDelay:  time.Second,
		MaxDumpSize: 4096,
		Logger:      logging.NewNop(),
	}
}

// PolicyClient is a Doer that applies rate limiting and retries around an
// inner transport.
type PolicyClient struct {
	config    *PolicyConfig
	transport Doer
	limiter   ratelimit.RateLimiter
	logger    logging.Logger
}

// NewPolicyClient creates a PolicyClient with the given configuration. A nil
// config selects DefaultPolicyConfig.
func NewPolicyClient(config *PolicyConfig) *PolicyClient {
	if config == nil {
		config = DefaultPolicyConfig()
	}

	transport := config.Transport
	if transport == nil {
		transport = &http.Client{Timeout: config.Timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var limiter ratelimit.RateLimiter
	if config.RateLimit.Limit > 0 {
		limiter = ratelimit.NewTokenBucketLimiter(config.RateLimit)
	}

	return &PolicyClient{
		config:    config,
		transport: transport,
		limiter:   limiter,
		logger:    logger,
	}
}

// SetRateLimit updates the rate limiter configuration.
func (c *PolicyClient) SetRateLimit(limit ratelimit.Rate) error {
	if c.limiter == nil {
		c.limiter = ratelimit.NewTokenBucketLimiter(limit)
		return nil
	}
	return c.limiter.SetLimit(limit)
}

// Do implements the Doer interface.
func (c *PolicyClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait error: %w", err)
		}
	}

	// Buffer the body once so each attempt gets a fresh reader.
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
	}

	if c.config.DumpBodies {
		c.logRequest(req, body)
	}

	attempts := c.config.MaxRetries
	if attempts == 0 {
		attempts = 1
	}

	var resp *http.Response
	start := time.Now()
	err := retry.Do(
		func() error {
			reqClone := req.Clone(ctx)
			if body != nil {
				reqClone.Body = io.NopCloser(bytes.NewReader(body))
			}

			var err error
			resp, err = c.transport.Do(reqClone)
			if err != nil {
				return fmt.Errorf("http request error: %w", err)
			}

			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return fmt.Errorf("retryable status code: %d", resp.StatusCode)
			}

			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(c.config.RetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying request",
				logging.Int("attempt", int(n)+1),
				logging.String("url", req.URL.String()),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}

	if c.config.DumpBodies {
		c.logResponse(req, resp, time.Since(start))
	}

	return resp, nil
}

// logRequest logs the outgoing request at debug level. The Authorization
// header is redacted before dumping.
func (c *PolicyClient) logRequest(req *http.Request, body []byte) {
	redacted := req.Clone(req.Context())
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "REDACTED")
	}

	dump, err := httputil.DumpRequestOut(redacted, false)
	if err != nil {
		c.logger.Warn("failed to dump request for logging", logging.Error(err))
		return
	}
	if body != nil {
		dump = append(dump, c.truncate(body)...)
	}

	c.logger.Debug("http request",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.String("dump", string(dump)),
	)
}

// logResponse logs the response at debug level, preserving the body for the
// caller by replacing it with a fresh reader.
func (c *PolicyClient) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	var dump []byte
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			c.logger.Warn("failed to read response body for logging", logging.Error(err))
			resp.Body = io.NopCloser(bytes.NewReader(nil))
			return
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))

		headers, err := httputil.DumpResponse(resp, false)
		if err == nil {
			dump = append(headers, c.truncate(body)...)
		}
	}

	c.logger.Debug("http response",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", duration),
		logging.String("dump", string(dump)),
	)
}

func (c *PolicyClient) truncate(body []byte) []byte {
	if c.config.MaxDumpSize > 0 && len(body) > c.config.MaxDumpSize {
		return body[:c.config.MaxDumpSize]
	}
	return body
}
