package tinker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const checkpointScheme = "tinker://"

var ErrInvalidCheckpoint = errors.New("invalid checkpoint path")

// Checkpoint is a parsed tinker:// model path, e.g.
// tinker://fa648063-...:train:0/sampler_weights/final.
// Path keeps the identifier exactly as given; it is what goes over the wire.
type Checkpoint struct {
	Path  string
	RunID string
	Step  int    // index after ":train:"
	Kind  string // sampler_weights or weights
	Name  string
}

func ParseCheckpoint(path string) (Checkpoint, error) {
	rest, ok := strings.CutPrefix(path, checkpointScheme)
	if !ok {
		return Checkpoint{}, fmt.Errorf("%w: %q must start with %s", ErrInvalidCheckpoint, path, checkpointScheme)
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return Checkpoint{}, fmt.Errorf("%w: %q must look like tinker://<run>:train:<n>/<kind>/<name>", ErrInvalidCheckpoint, path)
	}

	runID, stepStr, ok := strings.Cut(parts[0], ":train:")
	if !ok || runID == "" {
		return Checkpoint{}, fmt.Errorf("%w: %q has no :train: segment", ErrInvalidCheckpoint, path)
	}
	step, err := strconv.Atoi(stepStr)
	if err != nil || step < 0 {
		return Checkpoint{}, fmt.Errorf("%w: %q has bad train index %q", ErrInvalidCheckpoint, path, stepStr)
	}

	switch parts[1] {
	case "sampler_weights", "weights":
	default:
		return Checkpoint{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidCheckpoint, parts[1])
	}

	return Checkpoint{Path: path, RunID: runID, Step: step, Kind: parts[1], Name: parts[2]}, nil
}

func (c Checkpoint) String() string {
	if c.Path != "" {
		return c.Path
	}
	return fmt.Sprintf("%s%s:train:%d/%s/%s", checkpointScheme, c.RunID, c.Step, c.Kind, c.Name)
}

// Sampleable reports whether the checkpoint can back a sampling client.
func (c Checkpoint) Sampleable() bool {
	return c.Kind == "sampler_weights"
}
