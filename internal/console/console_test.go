package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"spotvoice/internal/config"
	"spotvoice/internal/copywriter"
	"spotvoice/internal/finetune"
	"spotvoice/internal/tinker"
	"spotvoice/internal/voice"
)

func TestCopyOutput(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.CopyHeader("Your table is ready")
	p.CopyVariation(copywriter.Variation{Index: 1, Text: "Spot booked it."})
	p.CopyVariation(copywriter.Variation{Index: 2, Push: true, Title: "Table found", Body: "Spot booked Carbone for 8pm."})
	p.CopyFooter()

	rule := strings.Repeat("=", 60)
	want := rule + "\n" +
		"INPUT:\n" +
		"\"Your table is ready\"\n" +
		rule + "\n" +
		"\nSPOT VOICE OPTIONS:\n\n" +
		"[1] Spot booked it.\n\n" +
		"[2] Title: Table found\n" +
		"    Body: Spot booked Carbone for 8pm.\n\n" +
		rule + "\n"
	assert.Equal(t, want, buf.String())
}

func TestCopyPushVariationWithEmptyReplies(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).CopyVariation(copywriter.Variation{Index: 1, Push: true})
	assert.Equal(t, "[1] Title: \n    Body: \n\n", buf.String())
}

func TestCopyVariationViolations(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).CopyVariation(copywriter.Variation{
		Index:      1,
		Text:       "The best table.",
		Violations: []voice.Violation{{Rule: voice.RuleSuperlative, Term: "best", Message: "no superlatives"}},
	})
	assert.Contains(t, buf.String(), `    ! superlative "best": no superlatives`)
}

func TestVoiceTestOutput(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.ModelLoading()
	p.ModelLoaded()
	p.VoicePrompt("Rewrite it.")
	p.VoiceResponse("Spot books it.")
	p.VoiceDone()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Loading Spot Voice model...\nModel loaded.\n\n"))
	assert.Contains(t, out, "📝 Rewrite it.")
	assert.Contains(t, out, "✍️  Spot books it.")
	assert.Contains(t, out, strings.Repeat("-", 70))
	assert.True(t, strings.HasSuffix(out, "Done!\n"))
}

func TestBannerAndTraining(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Banner("SPOT VOICE FINE-TUNING WITH TINKER")
	p.TrainingSummary(finetune.DefaultConfig(), 57)
	p.TrainingProgress(tinker.TrainingRun{Status: tinker.RunRunning, Step: 10, TotalSteps: 75, Epoch: 1,
		Metrics: map[string]float64{"train_loss": 0.5}})
	p.TrainingComplete(finetune.Outcome{RunID: "run-1", SamplerCheckpoint: "tinker://run-1:train:0/sampler_weights/final"})
	p.Error("Training data not found at x.jsonl")

	out := buf.String()
	assert.Contains(t, out, "SPOT VOICE FINE-TUNING WITH TINKER")
	assert.Contains(t, out, "╔")
	assert.Contains(t, out, "Training examples: 57")
	assert.Contains(t, out, "LoRA rank: 32")
	assert.Contains(t, out, "[running] step 10/75 epoch 1 loss 0.5000")
	assert.Contains(t, out, "Model saved as: tinker://run-1:train:0/sampler_weights/final")
	assert.Contains(t, out, "ERROR: Training data not found at x.jsonl")
}

func TestConfigError(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.ConfigError(config.ErrMissingAPIKey)
	assert.Contains(t, buf.String(), "TINKER_API_KEY not found in environment.\n")
	assert.Contains(t, buf.String(), "Add it to .env file or export TINKER_API_KEY=your_key\n")

	buf.Reset()
	p.ConfigError(errors.New("TINKER_BASE_URL is empty"))
	assert.Contains(t, buf.String(), "TINKER_BASE_URL is empty\n")
	assert.NotContains(t, buf.String(), "Add it to .env")
}
