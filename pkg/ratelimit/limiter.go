// Package ratelimit provides a small abstraction over a token bucket rate
// limiter, used by the HTTP policy layer to keep request rates below the
// exchange's published limits.
//
// The core client issues exactly one request per call and applies no rate
// limiting of its own; callers that want limiting opt in through
// common.PolicyClient, which draws a token from a RateLimiter before each
// request.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// Rate describes a limit of Limit operations per Interval. A Rate of
// {Limit: 300, Interval: time.Minute} allows five operations per second.
type Rate struct {
	Limit    int
	Interval time.Duration
}

// RateLimiter controls the pace of operations by forcing callers to wait
// when necessary to comply with a configured Rate.
type RateLimiter interface {
	// Wait blocks until an operation is permitted or the context is
	// cancelled.
	Wait(ctx context.Context) error

	// SetLimit replaces the rate configuration. It returns an error if the
	// new rate has a non-positive limit or interval.
	SetLimit(limit Rate) error
}

// uberLimiter implements RateLimiter on top of Uber's token bucket.
type uberLimiter struct {
	limiter ratelimit.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a RateLimiter with the given rate. The rate
// is converted to operations per second as required by the underlying
// implementation.
func NewTokenBucketLimiter(rate Rate) RateLimiter {
	rps := float64(rate.Limit) / rate.Interval.Seconds()
	if rps < 1 {
		rps = 1
	}
	return &uberLimiter{
		limiter: ratelimit.New(int(rps)),
		rate:    rate,
	}
}

// Wait implements the RateLimiter interface.
func (l *uberLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
		l.limiter.Take()
		return nil
	}
}

// SetLimit implements the RateLimiter interface.
func (l *uberLimiter) SetLimit(rate Rate) error {
	if rate.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", rate.Limit)
	}
	if rate.Interval <= 0 {
		return fmt.Errorf("rate interval must be positive, got %v", rate.Interval)
	}

	rps := float64(rate.Limit) / rate.Interval.Seconds()
	if rps < 1 {
		rps = 1
	}
	l.limiter = ratelimit.New(int(rps))
	l.rate = rate
	return nil
}
