// Command finetune submits a LoRA fine-tuning run for the Spot voice and
// waits for its sampler checkpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"spotvoice/internal/config"
	"spotvoice/internal/console"
	"spotvoice/internal/finetune"
	"spotvoice/internal/logging"
	"spotvoice/internal/tinker"
	"spotvoice/internal/transport"
)

func main() {
	os.Exit(run())
}

func run() int {
	tc := finetune.DefaultConfig()
	dataPath := flag.String("data", finetune.DefaultDataPath, "training data (JSONL conversations)")
	envPath := flag.String("env", ".env", "path to .env file")
	logLevel := flag.String("log-level", "warn", "log level for stderr")
	flag.StringVar(&tc.BaseModel, "base-model", tc.BaseModel, "base model to fine-tune")
	flag.StringVar(&tc.Renderer, "renderer", tc.Renderer, "chat template")
	flag.IntVar(&tc.MaxLength, "max-length", tc.MaxLength, "max sequence length")
	flag.IntVar(&tc.BatchSize, "batch-size", tc.BatchSize, "batch size")
	flag.Float64Var(&tc.LearningRate, "learning-rate", tc.LearningRate, "learning rate")
	flag.IntVar(&tc.NumEpochs, "epochs", tc.NumEpochs, "number of epochs")
	flag.IntVar(&tc.LoRARank, "lora-rank", tc.LoRARank, "LoRA rank")
	flag.IntVar(&tc.SaveEvery, "save-every", tc.SaveEvery, "save a checkpoint every N steps")
	flag.IntVar(&tc.EvalEvery, "eval-every", tc.EvalEvery, "evaluate every N steps")
	flag.StringVar(&tc.LogPath, "log-path", tc.LogPath, "directory for metrics and checkpoints")
	flag.Parse()

	logger := logging.NewText(os.Stderr, *logLevel)
	out := console.New(os.Stdout)

	out.Banner("SPOT VOICE FINE-TUNING WITH TINKER")

	if err := config.LoadDotEnv(*envPath); err != nil {
		out.Error(err.Error())
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	if err := cfg.Validate(); err != nil {
		out.ConfigError(err)
		return 1
	}
	if !isFlagSet("base-model") {
		tc.BaseModel = cfg.Tinker.BaseModel
	}

	ds, err := finetune.LoadDataset(*dataPath)
	if err != nil {
		if errors.Is(err, finetune.ErrDatasetNotFound) {
			out.Error("Training data not found at " + *dataPath)
		} else {
			out.Error(err.Error())
		}
		return 1
	}

	out.TrainingSummary(tc, ds.Len())

	client, err := tinker.NewServiceClient(cfg.Tinker, transport.NewAuthorizedClient(cfg.RequestTimeout, cfg.Tinker.APIKey), logger)
	if err != nil {
		out.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := finetune.NewTrainer(client, tc, logger, out.TrainingProgress).Run(ctx, ds)
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	out.TrainingComplete(outcome)
	return 0
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
