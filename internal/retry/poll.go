package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrPollTimeout is wrapped by TimeoutError so callers can match it with errors.Is.
var ErrPollTimeout = errors.New("poll timeout")

type TimeoutError struct {
	Elapsed time.Duration
	Polls   int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gave up after %d polls in %s", e.Polls, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Unwrap() error {
	return ErrPollTimeout
}

// PollFunc checks a pending operation once. done=true stops polling.
type PollFunc func(ctx context.Context) (done bool, err error)

// PollPolicy describes how a pending future is awaited. The interval grows by
// Multiplier after each unfinished check, up to MaxInterval.
type PollPolicy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	Timeout     time.Duration // 0 means wait until ctx is done
	Sleep       Sleeper
	Now         NowFunc
}

func withPollDefaults(p PollPolicy) PollPolicy {
	if p.Interval <= 0 {
		p.Interval = defaultBaseDelay
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = max(p.Interval, 5*time.Second)
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1.5
	}
	if p.Sleep == nil {
		p.Sleep = defaultSleep
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

// Poll calls check until it reports done, returns an error, ctx ends or the
// policy timeout elapses.
func Poll(ctx context.Context, policy PollPolicy, logger *slog.Logger, check PollFunc) error {
	policy = withPollDefaults(policy)
	start := policy.Now()
	interval := policy.Interval

	for polls := 1; ; polls++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		elapsed := policy.Now().Sub(start)
		if policy.Timeout > 0 && elapsed+interval > policy.Timeout {
			return &TimeoutError{Elapsed: elapsed, Polls: polls}
		}

		if logger != nil {
			logger.Debug("future pending",
				slog.Int("poll", polls),
				slog.Duration("next_in", interval),
				slog.Duration("elapsed", elapsed))
		}

		if err := policy.Sleep(ctx, interval); err != nil {
			return err
		}
		interval = min(time.Duration(float64(interval)*policy.Multiplier), policy.MaxInterval)
	}
}
