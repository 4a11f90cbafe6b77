// Package retry holds the backoff policies used against the Tinker API:
// DoHTTP retries transient HTTP failures, Poll waits on long-running futures.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	defaultBaseDelay      = 500 * time.Millisecond
	defaultMaxDelay       = 8 * time.Second
	defaultMultiplier     = 2.0
	defaultMaxAttempts    = 5
	defaultJitterFraction = 0.30
	defaultSnippetLimit   = 200
)

type Sleeper func(ctx context.Context, d time.Duration) error
type NowFunc func() time.Time
type RandFunc func() float64

// Policy controls how many times a request is attempted and how long to wait
// between attempts. Zero fields fall back to package defaults.
type Policy struct {
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	MaxAttempts    int
	JitterFraction float64
	SnippetLimit   int
	Sleep          Sleeper
	Now            NowFunc
	Rand           RandFunc
}

func DefaultPolicy() Policy {
	return withDefaults(Policy{})
}

func withDefaults(p Policy) Policy {
	if p.BaseDelay == 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay == 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.Multiplier == 0 {
		p.Multiplier = defaultMultiplier
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.JitterFraction == 0 {
		p.JitterFraction = defaultJitterFraction
	}
	if p.SnippetLimit == 0 {
		p.SnippetLimit = defaultSnippetLimit
	}
	if p.Sleep == nil {
		p.Sleep = defaultSleep
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Rand == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		p.Rand = rng.Float64
	}
	return p
}

// backoffDelay returns BaseDelay * Multiplier^(n-1), capped at MaxDelay.
func (p Policy) backoffDelay(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(n-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return time.Duration(delay)
}

// jitter spreads delay by +/- JitterFraction.
func (p Policy) jitter(delay time.Duration) time.Duration {
	if delay <= 0 || p.JitterFraction <= 0 {
		return delay
	}
	factor := 1 + (p.Rand()*2-1)*p.JitterFraction
	adjusted := float64(delay) * factor
	if adjusted < 0 {
		adjusted = 0
	}
	return time.Duration(adjusted)
}

func (p Policy) nextDelay(attempt int, retryAfter time.Duration, usedRetryAfter bool) time.Duration {
	if usedRetryAfter {
		return min(retryAfter, p.MaxDelay)
	}
	return p.jitter(p.backoffDelay(attempt))
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
