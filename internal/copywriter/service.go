package copywriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spotvoice/internal/voice"
)

const DefaultVariations = 3

var (
	ErrEmptyInput        = errors.New("input copy is empty")
	ErrInvalidVariations = errors.New("variations must be at least 1")
)

// Variation is one generated option. Push variations fill Title and Body,
// everything else fills Text. Either may be empty when the model returned nothing.
type Variation struct {
	Index      int               `json:"index"`
	Push       bool              `json:"push"`
	Text       string            `json:"text,omitempty"`
	Title      string            `json:"title,omitempty"`
	Body       string            `json:"body,omitempty"`
	Violations []voice.Violation `json:"violations,omitempty"`
}

type Result struct {
	ID         string      `json:"id"`
	Input      string      `json:"input"`
	Push       bool        `json:"push"`
	Variations []Variation `json:"variations"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Config struct {
	Sampler Sampler
	Profile voice.Profile
	Lint    bool
	Logger  *slog.Logger
}

// Service writes copy in one voice profile. Calls are issued strictly one after another.
type Service struct {
	sampler Sampler
	profile voice.Profile
	lint    bool
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sampler: cfg.Sampler,
		profile: cfg.Profile,
		lint:    cfg.Lint,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Profile() voice.Profile {
	return s.profile
}

// IsPush reports whether the input asks for a push notification.
func IsPush(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "push") || strings.Contains(lower, "notification")
}

func titlePrompt(input string) string {
	return "Write a 2-4 word title for: " + input
}

func bodyPrompt(input string) string {
	return "Write one sentence for: " + input
}

// Generate samples one completion for prompt and cleans it per the profile.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	raw, err := s.sampler.Generate(ctx, s.profile.System, prompt, s.profile.Sampling)
	if err != nil {
		return "", err
	}
	return s.profile.Clean(raw), nil
}

// WriteEach generates n variations and hands each to fn as soon as it is ready.
// Push inputs cost two calls per variation (title, body), others one.
func (s *Service) WriteEach(ctx context.Context, input string, n int, fn func(Variation) error) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if n < 1 {
		return ErrInvalidVariations
	}

	push := IsPush(input)
	for i := 1; i <= n; i++ {
		v, err := s.variation(ctx, input, i, push)
		if err != nil {
			return fmt.Errorf("variation %d: %w", i, err)
		}
		s.logger.Debug("variation ready",
			slog.Int("index", i),
			slog.Bool("push", push),
			slog.Int("violations", len(v.Violations)))
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// Write collects all variations into a Result.
func (s *Service) Write(ctx context.Context, input string, n int) (Result, error) {
	res := Result{
		ID:        uuid.NewString(),
		Input:     input,
		Push:      IsPush(input),
		CreatedAt: s.now().UTC(),
	}
	err := s.WriteEach(ctx, input, n, func(v Variation) error {
		res.Variations = append(res.Variations, v)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) variation(ctx context.Context, input string, index int, push bool) (Variation, error) {
	v := Variation{Index: index, Push: push}

	if !push {
		text, err := s.Generate(ctx, input)
		if err != nil {
			return Variation{}, err
		}
		v.Text = text
		if s.lint {
			v.Violations = voice.Lint(text)
		}
		return v, nil
	}

	title, err := s.Generate(ctx, titlePrompt(input))
	if err != nil {
		return Variation{}, fmt.Errorf("title: %w", err)
	}
	body, err := s.Generate(ctx, bodyPrompt(input))
	if err != nil {
		return Variation{}, fmt.Errorf("body: %w", err)
	}
	v.Title = title
	v.Body = body
	if s.lint {
		v.Violations = append(voice.Lint(title), voice.Lint(body)...)
	}
	return v, nil
}
