package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// HTTPStatusError is a retryable HTTP status that was still failing on the last attempt.
type HTTPStatusError struct {
	StatusCode  int
	BodySnippet string
}

func (e *HTTPStatusError) Error() string {
	if e.BodySnippet == "" {
		return fmt.Sprintf("transient status %d", e.StatusCode)
	}
	return fmt.Sprintf("transient status %d: %s", e.StatusCode, e.BodySnippet)
}

type ExhaustedError struct {
	Cause    error
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry attempts exhausted after %d: %v", e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// RequestFunc performs one attempt and returns the response with its fully read body.
type RequestFunc func(ctx context.Context) (*http.Response, []byte, error)

// DoHTTP runs do until it returns a non-retryable outcome or the policy gives up.
// Non-retryable statuses (4xx other than 408/429) are returned as-is with a nil error;
// the caller decides how to map them.
func DoHTTP(ctx context.Context, policy Policy, logger *slog.Logger, do RequestFunc) (*http.Response, []byte, error) {
	policy = withDefaults(policy)

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		resp, body, err := do(ctx)
		if err != nil {
			retryable := isRetryableNetErr(ctx, err)
			if !retryable {
				return resp, body, err
			}
			if attempt == policy.MaxAttempts {
				return resp, body, &ExhaustedError{Cause: err, Attempts: attempt}
			}
			delay := policy.jitter(policy.backoffDelay(attempt))
			logRetry(logger, retryEvent{
				attempt:     attempt + 1,
				maxAttempts: policy.MaxAttempts,
				reason:      reasonForNetErr(err),
				delay:       delay,
			})
			if err := policy.Sleep(ctx, delay); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp == nil {
			return nil, nil, errors.New("nil response from http client")
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, body, nil
		}

		snippet := bodySnippet(body, policy.SnippetLimit)
		if attempt == policy.MaxAttempts {
			return resp, body, &ExhaustedError{
				Cause:    &HTTPStatusError{StatusCode: resp.StatusCode, BodySnippet: snippet},
				Attempts: attempt,
			}
		}

		retryAfter, usedRetryAfter := parseRetryAfter(resp.Header, policy.Now())
		delay := policy.nextDelay(attempt, retryAfter, usedRetryAfter)
		logRetry(logger, retryEvent{
			attempt:        attempt + 1,
			maxAttempts:    policy.MaxAttempts,
			status:         resp.StatusCode,
			reason:         reasonForStatus(resp.StatusCode),
			delay:          delay,
			usedRetryAfter: usedRetryAfter,
			snippet:        snippet,
		})
		if err := policy.Sleep(ctx, delay); err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, errors.New("retry attempts exhausted")
}

func parseRetryAfter(header http.Header, now time.Time) (time.Duration, bool) {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, true
		}
		return time.Duration(seconds) * time.Second, true
	}
	if parsed, err := http.ParseTime(value); err == nil {
		return max(parsed.Sub(now), 0), true
	}
	return 0, false
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "rate limit"
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "upstream 5xx"
	}
}

func isRetryableNetErr(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	// Таймаут отдельной попытки (http.Client.Timeout), а не всего ctx.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection reset")
}

func reasonForNetErr(err error) string {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "eof"
	case errors.Is(err, syscall.ECONNRESET), strings.Contains(strings.ToLower(err.Error()), "connection reset"):
		return "connection reset"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return "network error"
}

type retryEvent struct {
	attempt        int
	maxAttempts    int
	status         int
	reason         string
	delay          time.Duration
	usedRetryAfter bool
	snippet        string
}

func logRetry(logger *slog.Logger, ev retryEvent) {
	if logger == nil {
		return
	}
	args := []any{
		slog.Int("attempt", ev.attempt),
		slog.Int("max_attempts", ev.maxAttempts),
		slog.String("reason", ev.reason),
		slog.Duration("retry_in", ev.delay),
		slog.Bool("retry_after_used", ev.usedRetryAfter),
	}
	if ev.status > 0 {
		args = append(args, slog.Int("status", ev.status))
	}
	if ev.snippet != "" {
		args = append(args, slog.String("snippet", ev.snippet))
	}
	logger.Warn("retrying request", args...)
}

func bodySnippet(body []byte, limit int) string {
	if len(body) == 0 || limit <= 0 {
		return ""
	}
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}
