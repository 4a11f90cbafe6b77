package finetune

import (
	"errors"
	"fmt"

	"spotvoice/internal/chat"
	"spotvoice/internal/config"
)

const (
	DefaultDataPath = "CopyWriting_References/spot_voice_training_v4.jsonl"
	DefaultLogPath  = "training_logs/spot_voice_v5"
)

type Config struct {
	BaseModel    string  `json:"base_model"`
	Renderer     string  `json:"renderer"`
	MaxLength    int     `json:"max_length"`
	BatchSize    int     `json:"batch_size"`
	LearningRate float64 `json:"learning_rate"`
	NumEpochs    int     `json:"num_epochs"`
	LoRARank     int     `json:"lora_rank"`
	SaveEvery    int     `json:"save_every"`
	EvalEvery    int     `json:"eval_every"`
	LogPath      string  `json:"log_path"`
}

// DefaultConfig is the v5 recipe: LoRA needs roughly 10x the full fine-tune learning rate.
func DefaultConfig() Config {
	return Config{
		BaseModel:    config.DefaultBaseModel,
		Renderer:     "llama3",
		MaxLength:    2048,
		BatchSize:    4,
		LearningRate: 5e-4,
		NumEpochs:    5,
		LoRARank:     32,
		SaveEvery:    50,
		EvalEvery:    25,
		LogPath:      DefaultLogPath,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.BaseModel == "" {
		errs = append(errs, errors.New("base model is required"))
	}
	if _, err := chat.RendererByName(c.Renderer); err != nil {
		errs = append(errs, err)
	}
	if c.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("max_length must be positive, got %d", c.MaxLength))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}
	if c.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("learning_rate must be positive, got %g", c.LearningRate))
	}
	if c.NumEpochs <= 0 {
		errs = append(errs, fmt.Errorf("num_epochs must be positive, got %d", c.NumEpochs))
	}
	if c.LoRARank <= 0 {
		errs = append(errs, fmt.Errorf("lora_rank must be positive, got %d", c.LoRARank))
	}
	if c.SaveEvery < 0 || c.EvalEvery < 0 {
		errs = append(errs, errors.New("save_every and eval_every must not be negative"))
	}
	if c.LogPath == "" {
		errs = append(errs, errors.New("log path is required"))
	}
	return errors.Join(errs...)
}

// StepsPerEpoch is the number of optimizer steps one pass over n examples takes.
func (c Config) StepsPerEpoch(n int) int {
	if c.BatchSize <= 0 || n <= 0 {
		return 0
	}
	return (n + c.BatchSize - 1) / c.BatchSize
}
