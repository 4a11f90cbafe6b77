package console

import (
	"fmt"
	"strings"

	"spotvoice/internal/finetune"
	"spotvoice/internal/tinker"
)

func (p *Printer) TrainingSummary(cfg finetune.Config, examples int) {
	p.Println()
	p.Rule("=", narrowRule)
	p.Println(p.accent.Render("Starting Spot Voice Fine-Tuning"))
	p.Rule("=", narrowRule)
	p.Printf("Base model: %s\n", cfg.BaseModel)
	p.Printf("Training examples: %d\n", examples)
	p.Printf("LoRA rank: %d\n", cfg.LoRARank)
	p.Printf("Learning rate: %g, epochs: %d, batch size: %d\n", cfg.LearningRate, cfg.NumEpochs, cfg.BatchSize)
	p.Printf("Steps per epoch: %d\n", cfg.StepsPerEpoch(examples))
	p.Printf("Log path: %s\n", cfg.LogPath)
	p.Rule("=", narrowRule)
	p.Println()
}

// TrainingProgress prints one line per observed status or step change.
func (p *Printer) TrainingProgress(run tinker.TrainingRun) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] step %d/%d", run.Status, run.Step, run.TotalSteps)
	if run.Epoch > 0 {
		fmt.Fprintf(&b, " epoch %d", run.Epoch)
	}
	if loss, ok := run.Metrics["train_loss"]; ok {
		fmt.Fprintf(&b, " loss %.4f", loss)
	}
	p.Println(p.muted.Render(b.String()))
}

func (p *Printer) TrainingComplete(out finetune.Outcome) {
	p.Println()
	p.Rule("=", narrowRule)
	p.Println("Training complete!")
	p.Printf("Run: %s\n", out.RunID)
	p.Printf("Model saved as: %s\n", out.SamplerCheckpoint)
	p.Rule("=", narrowRule)
}
