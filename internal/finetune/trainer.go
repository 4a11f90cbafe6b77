package finetune

import (
	"context"
	"fmt"
	"log/slog"

	"spotvoice/internal/tinker"
)

// Client is the part of the Tinker API a fine-tune needs.
type Client interface {
	CreateTrainingRun(ctx context.Context, req tinker.TrainingRunRequest) (string, error)
	WaitTrainingRun(ctx context.Context, id string, onUpdate func(tinker.TrainingRun)) (tinker.TrainingRun, error)
}

type Outcome struct {
	RunID             string
	Run               tinker.TrainingRun
	SamplerCheckpoint string
}

type Trainer struct {
	client   Client
	cfg      Config
	logger   *slog.Logger
	progress func(tinker.TrainingRun)
}

// NewTrainer; progress may be nil and is called on every observed status or step change.
func NewTrainer(client Client, cfg Config, logger *slog.Logger, progress func(tinker.TrainingRun)) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{client: client, cfg: cfg, logger: logger, progress: progress}
}

// Run submits the dataset, waits for the run to finish and records it under LogPath.
func (t *Trainer) Run(ctx context.Context, ds *Dataset) (Outcome, error) {
	if err := t.cfg.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("training config: %w", err)
	}
	if ds == nil || ds.Len() == 0 {
		return Outcome{}, fmt.Errorf("dataset has no examples")
	}

	runLog, err := OpenRunLog(t.cfg.LogPath, t.cfg, ds.Len())
	if err != nil {
		return Outcome{}, err
	}
	defer func() {
		if cerr := runLog.Close(); cerr != nil {
			t.logger.Warn("close run log", slog.String("error", cerr.Error()))
		}
	}()

	runID, err := t.client.CreateTrainingRun(ctx, tinker.TrainingRunRequest{
		BaseModel:    t.cfg.BaseModel,
		Renderer:     t.cfg.Renderer,
		LoRARank:     t.cfg.LoRARank,
		LearningRate: t.cfg.LearningRate,
		NumEpochs:    t.cfg.NumEpochs,
		BatchSize:    t.cfg.BatchSize,
		MaxLength:    t.cfg.MaxLength,
		SaveEvery:    t.cfg.SaveEvery,
		EvalEvery:    t.cfg.EvalEvery,
		Examples:     ds.Lines,
	})
	if err != nil {
		return Outcome{}, err
	}

	run, err := t.client.WaitTrainingRun(ctx, runID, func(run tinker.TrainingRun) {
		if err := runLog.Record(run); err != nil {
			t.logger.Warn("record training progress", slog.String("error", err.Error()))
		}
		t.logger.Info("training progress",
			slog.String("run_id", run.ID),
			slog.String("status", string(run.Status)),
			slog.Int("step", run.Step),
			slog.Int("total_steps", run.TotalSteps))
		if t.progress != nil {
			t.progress(run)
		}
	})
	out := Outcome{RunID: runID, Run: run}
	if err != nil {
		return out, err
	}

	path, ok := run.FinalSamplerCheckpoint()
	if !ok {
		return out, fmt.Errorf("run %s finished without a sampler checkpoint", runID)
	}
	out.SamplerCheckpoint = path
	return out, nil
}
