package tinker

import (
	"context"
	"fmt"
	"log/slog"

	"spotvoice/internal/retry"
)

const (
	samplePath         = "/api/v1/asample"
	retrieveFuturePath = "/api/v1/retrieve_future"

	futureTryAgain = "try_again"
	futureSample   = "sample"
	futureError    = "error"
)

// SamplingParams are the request-level generation controls.
type SamplingParams struct {
	MaxTokens   int      `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	Stop        []string `json:"stop,omitempty" yaml:"stop"`
}

// Validate rejects parameter sets the service would refuse.
func (p SamplingParams) Validate() error {
	if p.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", p.MaxTokens)
	}
	if p.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %g", p.Temperature)
	}
	return nil
}

// Prompt is the rendered prompt. Tokenization happens on the service side.
type Prompt struct {
	Text string `json:"text"`
}

type Sequence struct {
	Text       string `json:"text"`
	Tokens     []int  `json:"tokens,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

type SampleResponse struct {
	Sequences []Sequence
}

// FirstText returns the text of the first sequence.
func (r *SampleResponse) FirstText() (string, error) {
	if r == nil || len(r.Sequences) == 0 {
		return "", ErrEmptySample
	}
	return r.Sequences[0].Text, nil
}

type sampleRequest struct {
	ModelPath      string         `json:"model_path"`
	Prompt         Prompt         `json:"prompt"`
	NumSamples     int            `json:"num_samples"`
	SamplingParams SamplingParams `json:"sampling_params"`
}

type sampleAccepted struct {
	RequestID string `json:"request_id"`
}

type retrieveRequest struct {
	RequestID string `json:"request_id"`
}

type futureEnvelope struct {
	Type      string     `json:"type"`
	Sequences []Sequence `json:"sequences"`
	Error     *struct {
		Category string `json:"category"`
		Message  string `json:"message"`
	} `json:"error"`
}

// SamplingClient samples from one fixed checkpoint.
type SamplingClient struct {
	service    *ServiceClient
	checkpoint Checkpoint
}

// CreateSamplingClient binds a sampling client to a sampler_weights checkpoint.
func (c *ServiceClient) CreateSamplingClient(modelPath string) (*SamplingClient, error) {
	cp, err := ParseCheckpoint(modelPath)
	if err != nil {
		return nil, err
	}
	if !cp.Sampleable() {
		return nil, fmt.Errorf("%w: %s is not a sampler checkpoint", ErrInvalidCheckpoint, modelPath)
	}
	return &SamplingClient{service: c, checkpoint: cp}, nil
}

func (s *SamplingClient) Checkpoint() Checkpoint {
	return s.checkpoint
}

// Sample submits a sampling request and returns its future.
func (s *SamplingClient) Sample(ctx context.Context, prompt Prompt, numSamples int, params SamplingParams) (*SampleFuture, error) {
	if numSamples < 1 {
		numSamples = 1
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var accepted sampleAccepted
	err := s.service.postJSON(ctx, samplePath, sampleRequest{
		ModelPath:      s.checkpoint.Path,
		Prompt:         prompt,
		NumSamples:     numSamples,
		SamplingParams: params,
	}, &accepted)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	if accepted.RequestID == "" {
		return nil, fmt.Errorf("sample: service returned empty request_id")
	}

	s.service.logger.Debug("sample submitted",
		slog.String("request_id", accepted.RequestID),
		slog.Int("max_tokens", params.MaxTokens),
		slog.Float64("temperature", params.Temperature))

	return &SampleFuture{service: s.service, requestID: accepted.RequestID}, nil
}

// SampleFuture is a pending sample request.
type SampleFuture struct {
	service   *ServiceClient
	requestID string
}

func (f *SampleFuture) RequestID() string {
	return f.requestID
}

// Result blocks until the service finishes the request.
func (f *SampleFuture) Result(ctx context.Context) (*SampleResponse, error) {
	var result *SampleResponse

	err := retry.Poll(ctx, f.service.samplePoll, f.service.logger, func(ctx context.Context) (bool, error) {
		var env futureEnvelope
		if err := f.service.postJSON(ctx, retrieveFuturePath, retrieveRequest{RequestID: f.requestID}, &env); err != nil {
			return false, err
		}

		switch env.Type {
		case futureTryAgain:
			return false, nil
		case futureSample:
			result = &SampleResponse{Sequences: env.Sequences}
			return true, nil
		case futureError:
			fe := &FutureError{RequestID: f.requestID}
			if env.Error != nil {
				fe.Category = env.Error.Category
				fe.Message = env.Error.Message
			}
			return false, fe
		default:
			return false, fmt.Errorf("unexpected future type %q", env.Type)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", f.requestID, err)
	}
	return result, nil
}
