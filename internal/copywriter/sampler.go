package copywriter

import (
	"context"
	"fmt"

	"spotvoice/internal/chat"
	"spotvoice/internal/tinker"
)

// Sampler produces one raw completion for a system+user conversation.
type Sampler interface {
	Generate(ctx context.Context, system, user string, params tinker.SamplingParams) (string, error)
}

// TinkerSampler renders the conversation and samples from a checkpoint,
// blocking until the future resolves.
type TinkerSampler struct {
	client   *tinker.SamplingClient
	renderer chat.Renderer
}

func NewTinkerSampler(client *tinker.SamplingClient, renderer chat.Renderer) *TinkerSampler {
	if renderer == nil {
		renderer = chat.Llama3Renderer{}
	}
	return &TinkerSampler{client: client, renderer: renderer}
}

func (s *TinkerSampler) Generate(ctx context.Context, system, user string, params tinker.SamplingParams) (string, error) {
	prompt, err := s.renderer.BuildGenerationPrompt(chat.Conversation(system, user))
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	params.Stop = withStops(s.renderer.StopSequences(), params.Stop)
	future, err := s.client.Sample(ctx, tinker.Prompt{Text: prompt}, 1, params)
	if err != nil {
		return "", err
	}
	resp, err := future.Result(ctx)
	if err != nil {
		return "", err
	}
	return resp.FirstText()
}

// withStops puts the template's sentinels first and appends extra stops once.
func withStops(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
