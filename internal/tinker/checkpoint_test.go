package tinker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckpoint(t *testing.T) {
	path := "tinker://fa648063-5661-5e75-a791-f6c2ebf5cf7a:train:0/sampler_weights/final"

	cp, err := ParseCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, "fa648063-5661-5e75-a791-f6c2ebf5cf7a", cp.RunID)
	assert.Equal(t, 0, cp.Step)
	assert.Equal(t, "sampler_weights", cp.Kind)
	assert.Equal(t, "final", cp.Name)
	assert.True(t, cp.Sampleable())
	assert.Equal(t, path, cp.String())
}

func TestCheckpointPathIsKeptVerbatim(t *testing.T) {
	path := "tinker://abc:train:00/sampler_weights/final"

	cp, err := ParseCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cp.Step)
	assert.Equal(t, path, cp.Path)
	assert.Equal(t, path, cp.String())

	built := Checkpoint{RunID: "abc", Step: 0, Kind: "sampler_weights", Name: "final"}
	assert.Equal(t, "tinker://abc:train:0/sampler_weights/final", built.String())
}

func TestParseCheckpointErrors(t *testing.T) {
	cases := map[string]string{
		"no scheme":     "fa64:train:0/sampler_weights/final",
		"no train":      "tinker://fa64/sampler_weights/final",
		"bad index":     "tinker://fa64:train:x/sampler_weights/final",
		"missing name":  "tinker://fa64:train:0/sampler_weights/",
		"unknown kind":  "tinker://fa64:train:0/optimizer/final",
		"too many dirs": "tinker://fa64:train:0/sampler_weights/final/extra",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCheckpoint(path)
			assert.ErrorIs(t, err, ErrInvalidCheckpoint)
		})
	}
}

func TestTrainingRunFinalSamplerCheckpoint(t *testing.T) {
	run := TrainingRun{Checkpoints: []CheckpointInfo{
		{Path: "tinker://r:train:0/sampler_weights/000050", Kind: "sampler_weights", Step: 50},
		{Path: "tinker://r:train:0/weights/final", Kind: "weights", Step: 75},
		{Path: "tinker://r:train:0/sampler_weights/final", Kind: "sampler_weights", Step: 75},
	}}

	path, ok := run.FinalSamplerCheckpoint()
	require.True(t, ok)
	assert.Equal(t, "tinker://r:train:0/sampler_weights/final", path)

	_, ok = TrainingRun{}.FinalSamplerCheckpoint()
	assert.False(t, ok)
}
