package finetune

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spotvoice/internal/tinker"
)

const (
	configFile      = "config.json"
	metricsFile     = "metrics.jsonl"
	checkpointsFile = "checkpoints.jsonl"
)

// RunLog mirrors run progress into the log directory: a config snapshot,
// one metrics line per observed step and one line per new checkpoint.
type RunLog struct {
	dir         string
	metrics     *os.File
	checkpoints *os.File
	seen        map[string]struct{}
	now         func() time.Time
}

type metricsLine struct {
	Time    time.Time          `json:"time"`
	RunID   string             `json:"run_id"`
	Status  tinker.RunStatus   `json:"status"`
	Step    int                `json:"step"`
	Total   int                `json:"total_steps"`
	Epoch   int                `json:"epoch"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

type checkpointLine struct {
	Time time.Time `json:"time"`
	tinker.CheckpointInfo
}

func OpenRunLog(dir string, cfg Config, examples int) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	snapshot := struct {
		Config
		Examples int `json:"examples"`
	}{cfg, examples}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	metrics, err := openAppend(filepath.Join(dir, metricsFile))
	if err != nil {
		return nil, err
	}
	checkpoints, err := openAppend(filepath.Join(dir, checkpointsFile))
	if err != nil {
		metrics.Close()
		return nil, err
	}

	return &RunLog{
		dir:         dir,
		metrics:     metrics,
		checkpoints: checkpoints,
		seen:        make(map[string]struct{}),
		now:         time.Now,
	}, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

func (l *RunLog) Dir() string {
	return l.dir
}

// Record appends the run snapshot and any checkpoint not written before.
func (l *RunLog) Record(run tinker.TrainingRun) error {
	now := l.now().UTC()
	if err := writeLine(l.metrics, metricsLine{
		Time:    now,
		RunID:   run.ID,
		Status:  run.Status,
		Step:    run.Step,
		Total:   run.TotalSteps,
		Epoch:   run.Epoch,
		Metrics: run.Metrics,
	}); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	for _, cp := range run.Checkpoints {
		if _, ok := l.seen[cp.Path]; ok {
			continue
		}
		if err := writeLine(l.checkpoints, checkpointLine{Time: now, CheckpointInfo: cp}); err != nil {
			return fmt.Errorf("write checkpoint: %w", err)
		}
		l.seen[cp.Path] = struct{}{}
	}
	return nil
}

func writeLine(f *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

func (l *RunLog) Close() error {
	return errors.Join(l.metrics.Close(), l.checkpoints.Close())
}
