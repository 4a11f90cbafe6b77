package copywriter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotvoice/internal/tinker"
	"spotvoice/internal/voice"
)

type call struct {
	system string
	user   string
	params tinker.SamplingParams
}

// mockSampler реализует Sampler для тестов.
type mockSampler struct {
	calls        []call
	generateFunc func(user string) (string, error)
}

func (m *mockSampler) Generate(ctx context.Context, system, user string, params tinker.SamplingParams) (string, error) {
	m.calls = append(m.calls, call{system: system, user: user, params: params})
	if m.generateFunc != nil {
		return m.generateFunc(user)
	}
	return `"Spot books it."<|eot_id|>`, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func copywriteProfile(t *testing.T) voice.Profile {
	t.Helper()
	cat, err := voice.LoadCatalog("")
	require.NoError(t, err)
	p, err := cat.Get(voice.ProfileCopywrite)
	require.NoError(t, err)
	return p
}

func TestIsPush(t *testing.T) {
	assert.True(t, IsPush("Push: your table is ready"))
	assert.True(t, IsPush("NOTIFICATION when a table opens"))
	assert.True(t, IsPush("pushes"))
	assert.False(t, IsPush("Onboarding headline"))
}

func TestWriteSingleCallPerVariation(t *testing.T) {
	sampler := &mockSampler{}
	profile := copywriteProfile(t)
	svc := NewService(Config{Sampler: sampler, Profile: profile, Logger: testLogger()})

	res, err := svc.Write(context.Background(), "Onboarding headline", 3)
	require.NoError(t, err)

	assert.False(t, res.Push)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Variations, 3)
	require.Len(t, sampler.calls, 3)
	for i, v := range res.Variations {
		assert.Equal(t, i+1, v.Index)
		assert.Equal(t, "Spot books it.", v.Text)
		assert.Empty(t, v.Title)
	}
	for _, c := range sampler.calls {
		assert.Equal(t, "Onboarding headline", c.user)
		assert.Equal(t, profile.System, c.system)
		assert.Equal(t, profile.Sampling, c.params)
	}
}

func TestWritePushIssuesTwoCallsPerVariation(t *testing.T) {
	sampler := &mockSampler{generateFunc: func(user string) (string, error) {
		if strings.HasPrefix(user, "Write a 2-4 word title for: ") {
			return "'Table found'", nil
		}
		return "Spot booked Carbone for 8pm.<|end_of_text|>", nil
	}}
	svc := NewService(Config{Sampler: sampler, Profile: copywriteProfile(t), Logger: testLogger()})

	res, err := svc.Write(context.Background(), "Push notification: table booked", 3)
	require.NoError(t, err)

	assert.True(t, res.Push)
	require.Len(t, sampler.calls, 6)
	assert.Equal(t, "Write a 2-4 word title for: Push notification: table booked", sampler.calls[0].user)
	assert.Equal(t, "Write one sentence for: Push notification: table booked", sampler.calls[1].user)
	for _, v := range res.Variations {
		assert.Equal(t, "Table found", v.Title)
		assert.Equal(t, "Spot booked Carbone for 8pm.", v.Body)
		assert.Empty(t, v.Text)
		assert.True(t, v.Push)
	}
}

func TestWritePushKeepsShapeWhenRepliesAreEmpty(t *testing.T) {
	sampler := &mockSampler{generateFunc: func(string) (string, error) {
		return `""<|eot_id|>`, nil
	}}
	svc := NewService(Config{Sampler: sampler, Profile: copywriteProfile(t), Logger: testLogger()})

	res, err := svc.Write(context.Background(), "push: table ready", 1)
	require.NoError(t, err)

	require.Len(t, sampler.calls, 2)
	require.Len(t, res.Variations, 1)
	v := res.Variations[0]
	assert.True(t, v.Push)
	assert.Empty(t, v.Title)
	assert.Empty(t, v.Body)
}

func TestWriteLint(t *testing.T) {
	sampler := &mockSampler{generateFunc: func(string) (string, error) {
		return "We found the best table.", nil
	}}
	svc := NewService(Config{Sampler: sampler, Profile: copywriteProfile(t), Lint: true, Logger: testLogger()})

	res, err := svc.Write(context.Background(), "Headline", 1)
	require.NoError(t, err)
	require.Len(t, res.Variations, 1)
	assert.Len(t, res.Variations[0].Violations, 2)
}

func TestWriteValidatesInput(t *testing.T) {
	svc := NewService(Config{Sampler: &mockSampler{}, Profile: copywriteProfile(t), Logger: testLogger()})

	_, err := svc.Write(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.Write(context.Background(), "Headline", 0)
	assert.ErrorIs(t, err, ErrInvalidVariations)
}

func TestWriteEachStopsOnSamplerError(t *testing.T) {
	boom := errors.New("service unavailable")
	calls := 0
	sampler := &mockSampler{generateFunc: func(string) (string, error) {
		calls++
		if calls == 2 {
			return "", boom
		}
		return "ok", nil
	}}
	svc := NewService(Config{Sampler: sampler, Profile: copywriteProfile(t), Logger: testLogger()})

	var got []Variation
	err := svc.WriteEach(context.Background(), "Headline", 3, func(v Variation) error {
		got = append(got, v)
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 1, "first variation is delivered before the failure")
}

func TestGenerateKeepsQuotesForEditorial(t *testing.T) {
	cat, err := voice.LoadCatalog("")
	require.NoError(t, err)
	editorial, err := cat.Get(voice.ProfileEditorial)
	require.NoError(t, err)

	svc := NewService(Config{Sampler: &mockSampler{}, Profile: editorial, Logger: testLogger()})
	text, err := svc.Generate(context.Background(), "Rewrite")
	require.NoError(t, err)
	assert.Equal(t, `"Spot books it."`, text)
}
