package tinker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"spotvoice/internal/retry"
)

const trainingRunsPath = "/api/v1/training_runs"

type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// TrainingRunRequest starts a supervised LoRA fine-tune. Examples are the raw
// JSONL lines of the dataset and are sent without modification.
type TrainingRunRequest struct {
	BaseModel    string            `json:"base_model"`
	Renderer     string            `json:"renderer"`
	LoRARank     int               `json:"lora_rank"`
	LearningRate float64           `json:"learning_rate"`
	NumEpochs    int               `json:"num_epochs"`
	BatchSize    int               `json:"batch_size"`
	MaxLength    int               `json:"max_length"`
	SaveEvery    int               `json:"save_every"`
	EvalEvery    int               `json:"eval_every"`
	Examples     []json.RawMessage `json:"examples"`
}

type CheckpointInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Step int    `json:"step"`
}

type TrainingRun struct {
	ID          string             `json:"id"`
	Status      RunStatus          `json:"status"`
	Step        int                `json:"step"`
	TotalSteps  int                `json:"total_steps"`
	Epoch       int                `json:"epoch"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Checkpoints []CheckpointInfo   `json:"checkpoints,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// FinalSamplerCheckpoint returns the latest sampler_weights checkpoint path.
func (r TrainingRun) FinalSamplerCheckpoint() (string, bool) {
	best := -1
	for i, cp := range r.Checkpoints {
		if cp.Kind != "sampler_weights" {
			continue
		}
		if best < 0 || cp.Step >= r.Checkpoints[best].Step {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return r.Checkpoints[best].Path, true
}

type trainingRunCreated struct {
	TrainingRunID string `json:"training_run_id"`
}

func (c *ServiceClient) CreateTrainingRun(ctx context.Context, req TrainingRunRequest) (string, error) {
	var created trainingRunCreated
	if err := c.postJSON(ctx, trainingRunsPath, req, &created); err != nil {
		return "", fmt.Errorf("create training run: %w", err)
	}
	if created.TrainingRunID == "" {
		return "", fmt.Errorf("create training run: service returned empty id")
	}
	c.logger.Info("training run created",
		slog.String("run_id", created.TrainingRunID),
		slog.String("base_model", req.BaseModel),
		slog.Int("examples", len(req.Examples)))
	return created.TrainingRunID, nil
}

func (c *ServiceClient) GetTrainingRun(ctx context.Context, id string) (TrainingRun, error) {
	var run TrainingRun
	if err := c.getJSON(ctx, trainingRunsPath+"/"+url.PathEscape(id), &run); err != nil {
		return TrainingRun{}, fmt.Errorf("get training run %s: %w", id, err)
	}
	return run, nil
}

// WaitTrainingRun polls the run until it reaches a terminal status. onUpdate
// is called whenever the status or the step changes.
func (c *ServiceClient) WaitTrainingRun(ctx context.Context, id string, onUpdate func(TrainingRun)) (TrainingRun, error) {
	var (
		last    TrainingRun
		started bool
	)

	err := retry.Poll(ctx, c.trainingPoll, c.logger, func(ctx context.Context) (bool, error) {
		run, err := c.GetTrainingRun(ctx, id)
		if err != nil {
			return false, err
		}
		changed := !started || run.Status != last.Status || run.Step != last.Step
		started = true
		last = run
		if changed && onUpdate != nil {
			onUpdate(run)
		}
		return run.Status.Terminal(), nil
	})
	if err != nil {
		return last, err
	}

	if last.Status != RunCompleted {
		return last, fmt.Errorf("%w: run %s is %s: %s", ErrRunFailed, id, last.Status, last.Error)
	}
	return last, nil
}
