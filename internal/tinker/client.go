// Package tinker is a small client for the Tinker fine-tuning and sampling service.
package tinker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spotvoice/internal/config"
	"spotvoice/internal/retry"
)

var ErrMissingBaseURL = errors.New("tinker: base url is required")

// ServiceClient talks to the Tinker REST API. It is safe for concurrent use,
// but the tools in this repo issue calls one at a time.
type ServiceClient struct {
	baseURL      string
	httpClient   *http.Client
	retry        retry.Policy
	samplePoll   retry.PollPolicy
	trainingPoll retry.PollPolicy
	logger       *slog.Logger
}

type Option func(*ServiceClient)

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *ServiceClient) { c.retry = p }
}

func WithSamplePoll(p retry.PollPolicy) Option {
	return func(c *ServiceClient) { c.samplePoll = p }
}

func WithTrainingPoll(p retry.PollPolicy) Option {
	return func(c *ServiceClient) { c.trainingPoll = p }
}

// NewServiceClient expects httpClient to carry authentication
// (see transport.NewAuthorizedClient).
func NewServiceClient(cfg config.TinkerConfig, httpClient *http.Client, logger *slog.Logger, opts ...Option) (*ServiceClient, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &ServiceClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		retry:      retry.DefaultPolicy(),
		samplePoll: retry.PollPolicy{
			Interval:    cfg.PollInterval,
			MaxInterval: 5 * time.Second,
			Multiplier:  1.5,
			Timeout:     cfg.PollTimeout,
		},
		trainingPoll: retry.PollPolicy{
			Interval:    5 * time.Second,
			MaxInterval: 30 * time.Second,
			Multiplier:  1.5,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *ServiceClient) postJSON(ctx context.Context, path string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, buf, out)
}

func (c *ServiceClient) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *ServiceClient) do(ctx context.Context, method, path string, payload []byte, out any) error {
	url := c.baseURL + path

	resp, body, err := retry.DoHTTP(ctx, c.retry, c.logger, func(ctx context.Context) (*http.Response, []byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, nil, fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp, nil, fmt.Errorf("read response: %w", err)
		}
		return resp, data, nil
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
